package model

// Status is the per-item and header-level outcome of a mapper request.
type Status string

const (
	StatusSucc Status = "succ"
	StatusRjct Status = "rjct"
)

// ReasonCode is a closed enum of G2P Connect status reason codes. Resolve
// misses are modeled as successful outcomes carrying a negative reason code,
// distinct from validation rejections.
type ReasonCode string

const (
	ReasonIDInvalid            ReasonCode = "rjct.id.invalid"
	ReasonFAInvalid            ReasonCode = "rjct.fa.invalid"
	ReasonReferenceIDDuplicate ReasonCode = "rjct.reference_id.duplicate"
	ReasonActionNotSupported   ReasonCode = "rjct.action.not_supported"
	ReasonErrorsTooMany        ReasonCode = "rjct.errors.too_many"

	ReasonIDActive        ReasonCode = "succ.id.active"
	ReasonFAActive        ReasonCode = "succ.fa.active"
	ReasonIDNotFound      ReasonCode = "succ.id.not_found"
	ReasonFANotFound      ReasonCode = "succ.fa.not_found"
	ReasonFANotLinkedToID ReasonCode = "succ.fa.not_linked_to_id"
)

// Rejection is the result-typed outcome of a failed item validation. A nil
// *Rejection means the item passed.
type Rejection struct {
	Code    ReasonCode
	Message string
}

func (r *Rejection) Error() string {
	return string(r.Code) + ": " + r.Message
}

func Reject(code ReasonCode, message string) *Rejection {
	return &Rejection{Code: code, Message: message}
}
