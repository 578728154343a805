package mapper

import (
	"time"

	"github.com/openspar/mapper/config"
	"github.com/openspar/mapper/model"
)

// The response assembler turns per-item outcomes plus the original request
// envelope into the sync response, the async ack, or the callback payload.
// Counters are computed purely from the outcome list.

func countCompleted(responses []model.SingleResponse) int {
	completed := 0
	for _, response := range responses {
		if response.Status == model.StatusSucc {
			completed++
		}
	}
	return completed
}

func batchHeaderStatus(total, completed int) (model.Status, model.ReasonCode, string) {
	if total > 0 && completed == 0 {
		return model.StatusRjct, model.ReasonErrorsTooMany, "All requests in transaction failed."
	}
	return model.StatusSucc, "", ""
}

// AssembleSyncResponse builds the envelope returned inline on the sync path.
// The header status reflects the batch: rjct only when every item of a
// non-empty batch failed.
func AssembleSyncResponse(req *model.MapperRequest, op model.Operation, responses []model.SingleResponse) *model.MapperResponse {
	total := len(responses)
	completed := countCompleted(responses)
	status, reasonCode, reasonMessage := batchHeaderStatus(total, completed)

	message := model.ResponseMessage{TransactionID: req.Message.TransactionID}
	message.SetResponses(op, responses)

	return &model.MapperResponse{
		Header: model.ResponseHeader{
			Version:             model.ProtocolVersion,
			MessageID:           req.Header.MessageID,
			MessageTS:           time.Now().Format(time.RFC3339),
			Action:              string(op),
			Status:              status,
			StatusReasonCode:    reasonCode,
			StatusReasonMessage: reasonMessage,
			TotalCount:          total,
			CompletedCount:      completed,
			SenderID:            req.Header.SenderID,
			ReceiverID:          req.Header.ReceiverID,
			IsMsgEncrypted:      false,
			Meta:                map[string]interface{}{},
		},
		Message: message,
	}
}

// AssembleErrorResponse builds the rejected envelope for a request that failed
// validation before any item was processed. The message body stays empty.
func AssembleErrorResponse(req *model.MapperRequest, op model.Operation, verr *RequestValidationError) *model.MapperResponse {
	return &model.MapperResponse{
		Header: model.ResponseHeader{
			Version:             model.ProtocolVersion,
			MessageID:           req.Header.MessageID,
			MessageTS:           time.Now().Format(time.RFC3339),
			Action:              string(op),
			Status:              model.StatusRjct,
			StatusReasonCode:    verr.Code,
			StatusReasonMessage: verr.Message,
			SenderID:            req.Header.SenderID,
			ReceiverID:          req.Header.ReceiverID,
			IsMsgEncrypted:      false,
		},
		Message: model.ResponseMessage{},
	}
}

// AssembleAsyncAck acknowledges an async request before any processing has
// started.
func AssembleAsyncAck(correlationID string) *model.AsyncResponse {
	return &model.AsyncResponse{
		Message: model.AsyncResponseMessage{
			AckStatus:     model.AckACK,
			CorrelationID: correlationID,
			Timestamp:     time.Now(),
		},
	}
}

// AssembleAsyncNack refuses an async request that failed validation up front.
func AssembleAsyncNack(reason string) *model.AsyncResponse {
	return &model.AsyncResponse{
		Message: model.AsyncResponseMessage{
			AckStatus: model.AckNACK,
			Timestamp: time.Now(),
			Error:     reason,
		},
	}
}

// AssembleCallback mirrors the sync envelope as the async callback payload.
// The sender becomes this service, the receiver the original caller, and the
// correlation id issued at acceptance is echoed in the message.
func AssembleCallback(req *model.MapperRequest, op model.Operation, correlationID string, responses []model.SingleResponse) *model.MapperResponse {
	callbackSenderID := ""
	if cnf, err := config.Fetch(); err == nil {
		callbackSenderID = cnf.Callback.SenderID
	}

	total := len(responses)
	completed := countCompleted(responses)
	status, reasonCode, reasonMessage := batchHeaderStatus(total, completed)

	message := model.ResponseMessage{
		TransactionID: req.Message.TransactionID,
		CorrelationID: correlationID,
	}
	message.SetResponses(op, responses)

	return &model.MapperResponse{
		Signature: req.Signature,
		Header: model.ResponseHeader{
			Version:             model.ProtocolVersion,
			MessageID:           req.Header.MessageID,
			MessageTS:           time.Now().Format(time.RFC3339),
			Action:              string(op),
			Status:              status,
			StatusReasonCode:    reasonCode,
			StatusReasonMessage: reasonMessage,
			TotalCount:          total,
			CompletedCount:      completed,
			SenderID:            callbackSenderID,
			ReceiverID:          req.Header.SenderID,
			IsMsgEncrypted:      false,
		},
		Message: message,
	}
}
