package model

import "time"

// ProtocolVersion is echoed in every response header.
const ProtocolVersion = "1.0.0"

// Operation is one of the four mapper actions. The request header action must
// match the endpoint's operation exactly, case-sensitive.
type Operation string

const (
	OpLink    Operation = "link"
	OpUpdate  Operation = "update"
	OpResolve Operation = "resolve"
	OpUnlink  Operation = "unlink"
)

func (op Operation) Valid() bool {
	switch op {
	case OpLink, OpUpdate, OpResolve, OpUnlink:
		return true
	}
	return false
}

// CallbackSuffix is appended to the caller's sender_uri when delivering the
// async result, e.g. "/on-link".
func (op Operation) CallbackSuffix() string {
	return "/on-" + string(op)
}

// ResolveScope selects how much detail a resolve item returns.
type ResolveScope string

const (
	ScopeDetails ResolveScope = "details"
	ScopeYesNo   ResolveScope = "yes_no"
)

// Item is a single entry of a batch request. One shape serves all four
// operations; Scope is consumed by resolve only.
type Item struct {
	ReferenceID    string           `json:"reference_id"`
	Timestamp      string           `json:"timestamp,omitempty"`
	ID             string           `json:"id"`
	FA             string           `json:"fa"`
	Name           string           `json:"name,omitempty"`
	PhoneNumber    string           `json:"phone_number,omitempty"`
	AdditionalInfo []AdditionalInfo `json:"additional_info,omitempty"`
	Scope          ResolveScope     `json:"scope,omitempty"`
	Locale         string           `json:"locale,omitempty"`
}

type RequestHeader struct {
	Version        string                 `json:"version,omitempty"`
	MessageID      string                 `json:"message_id"`
	MessageTS      string                 `json:"message_ts,omitempty"`
	Action         string                 `json:"action"`
	SenderID       string                 `json:"sender_id,omitempty"`
	SenderURI      string                 `json:"sender_uri,omitempty"`
	ReceiverID     string                 `json:"receiver_id,omitempty"`
	TotalCount     int                    `json:"total_count,omitempty"`
	IsMsgEncrypted bool                   `json:"is_msg_encrypted,omitempty"`
	Meta           map[string]interface{} `json:"meta,omitempty"`
}

// RequestMessage carries exactly one of the four item lists, keyed by
// operation on the wire.
type RequestMessage struct {
	TransactionID  string `json:"transaction_id"`
	LinkRequest    []Item `json:"link_request,omitempty"`
	UpdateRequest  []Item `json:"update_request,omitempty"`
	ResolveRequest []Item `json:"resolve_request,omitempty"`
	UnlinkRequest  []Item `json:"unlink_request,omitempty"`
}

// Items returns the batch for the given operation, in request order.
func (m *RequestMessage) Items(op Operation) []Item {
	switch op {
	case OpLink:
		return m.LinkRequest
	case OpUpdate:
		return m.UpdateRequest
	case OpResolve:
		return m.ResolveRequest
	case OpUnlink:
		return m.UnlinkRequest
	}
	return nil
}

// SetItems assigns the batch for the given operation. Used by tests and
// request builders.
func (m *RequestMessage) SetItems(op Operation, items []Item) {
	switch op {
	case OpLink:
		m.LinkRequest = items
	case OpUpdate:
		m.UpdateRequest = items
	case OpResolve:
		m.ResolveRequest = items
	case OpUnlink:
		m.UnlinkRequest = items
	}
}

// MapperRequest is the inbound envelope shared by the sync and async paths.
// The signature field is carried but not verified.
type MapperRequest struct {
	Signature string         `json:"signature,omitempty"`
	Header    RequestHeader  `json:"header"`
	Message   RequestMessage `json:"message"`
}

// SingleResponse is the per-item outcome, produced by the batch processor and
// never persisted.
type SingleResponse struct {
	ReferenceID         string           `json:"reference_id"`
	Timestamp           time.Time        `json:"timestamp"`
	ID                  string           `json:"id,omitempty"`
	FA                  string           `json:"fa,omitempty"`
	Status              Status           `json:"status"`
	StatusReasonCode    ReasonCode       `json:"status_reason_code,omitempty"`
	StatusReasonMessage string           `json:"status_reason_message,omitempty"`
	AdditionalInfo      []AdditionalInfo `json:"additional_info,omitempty"`
	Locale              string           `json:"locale,omitempty"`
}

type ResponseHeader struct {
	Version             string                 `json:"version"`
	MessageID           string                 `json:"message_id"`
	MessageTS           string                 `json:"message_ts"`
	Action              string                 `json:"action"`
	Status              Status                 `json:"status"`
	StatusReasonCode    ReasonCode             `json:"status_reason_code,omitempty"`
	StatusReasonMessage string                 `json:"status_reason_message,omitempty"`
	TotalCount          int                    `json:"total_count"`
	CompletedCount      int                    `json:"completed_count"`
	SenderID            string                 `json:"sender_id,omitempty"`
	ReceiverID          string                 `json:"receiver_id,omitempty"`
	IsMsgEncrypted      bool                   `json:"is_msg_encrypted"`
	Meta                map[string]interface{} `json:"meta,omitempty"`
}

// ResponseMessage mirrors RequestMessage: one operation-keyed response list.
// CorrelationID is set only on async callback payloads.
type ResponseMessage struct {
	TransactionID   string           `json:"transaction_id"`
	CorrelationID   string           `json:"correlation_id,omitempty"`
	LinkResponse    []SingleResponse `json:"link_response,omitempty"`
	UpdateResponse  []SingleResponse `json:"update_response,omitempty"`
	ResolveResponse []SingleResponse `json:"resolve_response,omitempty"`
	UnlinkResponse  []SingleResponse `json:"unlink_response,omitempty"`
}

func (m *ResponseMessage) Responses(op Operation) []SingleResponse {
	switch op {
	case OpLink:
		return m.LinkResponse
	case OpUpdate:
		return m.UpdateResponse
	case OpResolve:
		return m.ResolveResponse
	case OpUnlink:
		return m.UnlinkResponse
	}
	return nil
}

func (m *ResponseMessage) SetResponses(op Operation, responses []SingleResponse) {
	switch op {
	case OpLink:
		m.LinkResponse = responses
	case OpUpdate:
		m.UpdateResponse = responses
	case OpResolve:
		m.ResolveResponse = responses
	case OpUnlink:
		m.UnlinkResponse = responses
	}
}

// MapperResponse is the sync response envelope. The async callback payload
// shares the same shape, delivered over HTTP instead of the response body.
type MapperResponse struct {
	Signature string          `json:"signature,omitempty"`
	Header    ResponseHeader  `json:"header"`
	Message   ResponseMessage `json:"message"`
}

// AckStatus acknowledges an async request before any processing occurs.
type AckStatus string

const (
	AckACK  AckStatus = "ACK"
	AckNACK AckStatus = "NACK"
)

type AsyncResponseMessage struct {
	AckStatus     AckStatus `json:"ack_status"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	Error         string    `json:"error,omitempty"`
}

type AsyncResponse struct {
	Message AsyncResponseMessage `json:"message"`
}
