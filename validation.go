package mapper

import (
	"context"
	"fmt"

	"github.com/openspar/mapper/database"
	"github.com/openspar/mapper/model"
)

// RequestValidationError rejects a whole request before any item is
// processed, e.g. a header action that does not match the endpoint.
type RequestValidationError struct {
	Code    model.ReasonCode
	Message string
}

func (e *RequestValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ValidateRequestHeader enforces the exact, case-sensitive match between the
// header action and the endpoint's operation.
func ValidateRequestHeader(req *model.MapperRequest, op model.Operation) *RequestValidationError {
	if req.Header.Action != string(op) {
		return &RequestValidationError{
			Code:    model.ReasonActionNotSupported,
			Message: fmt.Sprintf("Received invalid action '%s' in header for '%s'.", req.Header.Action, op),
		}
	}
	return nil
}

// Item validations return a *model.Rejection for expected business failures
// and an error only for store faults, which abort the whole batch. Each
// validation reads within the batch transaction the item is about to mutate;
// races between concurrent requests fall to the store's unique constraint.

func validateLinkItem(ctx context.Context, tx database.MappingTx, item model.Item) (*model.Rejection, error) {
	if item.ID == "" {
		return model.Reject(model.ReasonIDInvalid, "ID is null"), nil
	}
	if item.FA == "" {
		return model.Reject(model.ReasonFAInvalid, "FA is null"), nil
	}

	exists, err := tx.PairExists(ctx, item.ID, item.FA)
	if err != nil {
		return nil, err
	}
	if exists {
		return model.Reject(model.ReasonReferenceIDDuplicate, "ID and FA are already mapped"), nil
	}
	return nil, nil
}

func validateUpdateItem(ctx context.Context, tx database.MappingTx, item model.Item) (*model.Rejection, error) {
	if item.ID == "" {
		return model.Reject(model.ReasonIDInvalid, "ID is null"), nil
	}
	if item.FA == "" {
		return model.Reject(model.ReasonFAInvalid, "FA is null"), nil
	}

	record, err := tx.GetByIDValue(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return model.Reject(model.ReasonIDInvalid, "Mapping doesn't exist against given ID. Use 'link' instead."), nil
	}
	return nil, nil
}

// validateResolveItem only rejects when neither ID nor FA is given; lookup
// misses are successful outcomes with a negative reason code, not rejections.
func validateResolveItem(item model.Item) *model.Rejection {
	if item.ID == "" && item.FA == "" {
		return model.Reject(model.ReasonIDInvalid, "Neither ID nor FA given.")
	}
	return nil
}

func validateUnlinkItem(ctx context.Context, tx database.MappingTx, item model.Item) (*model.Rejection, error) {
	if item.ID == "" {
		return model.Reject(model.ReasonIDInvalid, "ID is null"), nil
	}

	record, err := tx.GetByIDValue(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return model.Reject(model.ReasonIDInvalid, "ID doesn't exist"), nil
	}
	return nil, nil
}
