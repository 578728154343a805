package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openspar/mapper/config"
	"github.com/openspar/mapper/model"
)

func TestAssembleSyncResponse_Counters(t *testing.T) {
	req := buildRequest(model.OpLink, []model.Item{
		{ReferenceID: "ref-1"}, {ReferenceID: "ref-2"}, {ReferenceID: "ref-3"},
	})

	responses := []model.SingleResponse{
		{ReferenceID: "ref-1", Status: model.StatusSucc},
		{ReferenceID: "ref-2", Status: model.StatusRjct, StatusReasonCode: model.ReasonFAInvalid},
		{ReferenceID: "ref-3", Status: model.StatusSucc},
	}

	resp := AssembleSyncResponse(req, model.OpLink, responses)

	assert.Equal(t, model.ProtocolVersion, resp.Header.Version)
	assert.Equal(t, "msg-1", resp.Header.MessageID)
	assert.Equal(t, "link", resp.Header.Action)
	assert.Equal(t, model.StatusSucc, resp.Header.Status)
	assert.Equal(t, 3, resp.Header.TotalCount)
	assert.Equal(t, 2, resp.Header.CompletedCount)
	assert.Equal(t, "registry.caller", resp.Header.SenderID)
	assert.Equal(t, "txn-1", resp.Message.TransactionID)
	assert.Equal(t, responses, resp.Message.LinkResponse)
	assert.Empty(t, resp.Message.UpdateResponse)
}

func TestAssembleSyncResponse_AllFailed(t *testing.T) {
	req := buildRequest(model.OpUpdate, []model.Item{{ReferenceID: "ref-1"}})

	responses := []model.SingleResponse{
		{ReferenceID: "ref-1", Status: model.StatusRjct, StatusReasonCode: model.ReasonIDInvalid},
	}

	resp := AssembleSyncResponse(req, model.OpUpdate, responses)

	assert.Equal(t, model.StatusRjct, resp.Header.Status)
	assert.Equal(t, model.ReasonErrorsTooMany, resp.Header.StatusReasonCode)
	assert.Equal(t, "All requests in transaction failed.", resp.Header.StatusReasonMessage)
	assert.Equal(t, 1, resp.Header.TotalCount)
	assert.Equal(t, 0, resp.Header.CompletedCount)
}

func TestAssembleSyncResponse_EmptyBatch(t *testing.T) {
	req := buildRequest(model.OpResolve, nil)

	resp := AssembleSyncResponse(req, model.OpResolve, nil)

	// An empty batch is not a failure.
	assert.Equal(t, model.StatusSucc, resp.Header.Status)
	assert.Equal(t, 0, resp.Header.TotalCount)
	assert.Equal(t, 0, resp.Header.CompletedCount)
}

func TestAssembleErrorResponse(t *testing.T) {
	req := buildRequest(model.OpLink, nil)
	req.Header.Action = "Link"

	verr := ValidateRequestHeader(req, model.OpLink)
	assert.NotNil(t, verr)

	resp := AssembleErrorResponse(req, model.OpLink, verr)

	assert.Equal(t, model.StatusRjct, resp.Header.Status)
	assert.Equal(t, model.ReasonActionNotSupported, resp.Header.StatusReasonCode)
	assert.Contains(t, resp.Header.StatusReasonMessage, "Link")
	assert.Empty(t, resp.Message.LinkResponse)
}

func TestValidateRequestHeader_Match(t *testing.T) {
	req := buildRequest(model.OpUnlink, nil)
	assert.Nil(t, ValidateRequestHeader(req, model.OpUnlink))
}

func TestAssembleAsyncAck(t *testing.T) {
	ack := AssembleAsyncAck("3fa85f64-5717-4562-b3fc-2c963f66afa6")

	assert.Equal(t, model.AckACK, ack.Message.AckStatus)
	assert.Equal(t, "3fa85f64-5717-4562-b3fc-2c963f66afa6", ack.Message.CorrelationID)
	assert.False(t, ack.Message.Timestamp.IsZero())
}

func TestAssembleAsyncNack(t *testing.T) {
	nack := AssembleAsyncNack("Received invalid action 'Link' in header for 'link'.")

	assert.Equal(t, model.AckNACK, nack.Message.AckStatus)
	assert.Empty(t, nack.Message.CorrelationID)
	assert.Contains(t, nack.Message.Error, "invalid action")
}

func TestAssembleCallback(t *testing.T) {
	config.MockConfig(&config.Configuration{})

	req := buildRequest(model.OpResolve, []model.Item{{ReferenceID: "ref-1", ID: "A"}})
	req.Signature = "sig-1"

	responses := []model.SingleResponse{
		{ReferenceID: "ref-1", Status: model.StatusSucc, StatusReasonCode: model.ReasonIDActive},
	}

	resp := AssembleCallback(req, model.OpResolve, "corr-1", responses)

	assert.Equal(t, "sig-1", resp.Signature)
	assert.Equal(t, "spar.mapper", resp.Header.SenderID)
	assert.Equal(t, "registry.caller", resp.Header.ReceiverID)
	assert.Equal(t, "corr-1", resp.Message.CorrelationID)
	assert.Equal(t, responses, resp.Message.ResolveResponse)
	assert.Equal(t, 1, resp.Header.CompletedCount)
}
