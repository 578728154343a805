package mapper

import (
	"context"

	"github.com/openspar/mapper/database"
	"github.com/openspar/mapper/model"
)

// processResolve answers each item with a read-only lookup. Given predicates
// are ANDed; a value in the namespace wildcard form ("scheme:issuer@")
// matches by substring so an entire namespace scope can be resolved. A miss
// is a successful outcome carrying a not-found reason code.
func (m *Mapper) processResolve(ctx context.Context, tx database.MappingTx, items []model.Item) ([]model.SingleResponse, error) {
	responses := make([]model.SingleResponse, 0, len(items))

	for _, item := range items {
		if rejection := validateResolveItem(item); rejection != nil {
			responses = append(responses, rejectedResponse(item, rejection))
			continue
		}

		record, err := tx.FindOne(ctx, database.MappingQuery{IDValue: item.ID, FAValue: item.FA})
		if err != nil {
			return nil, err
		}

		responses = append(responses, resolveResponse(item, record))
	}

	return responses, nil
}

func resolveResponse(item model.Item, record *model.MappingRecord) model.SingleResponse {
	response := succeededResponse(item)

	if record != nil {
		if item.Scope == model.ScopeDetails {
			response.FA = record.FAValue
			response.ID = record.IDValue
			response.AdditionalInfo = record.AdditionalInfo
		}
		if item.FA != "" && item.ID == "" {
			response.StatusReasonCode = model.ReasonFAActive
		} else {
			response.StatusReasonCode = model.ReasonIDActive
		}
		return response
	}

	switch {
	case item.ID != "" && item.FA != "":
		response.StatusReasonCode = model.ReasonFANotLinkedToID
		response.StatusReasonMessage = "No mapping found for given FA and ID combination."
	case item.FA != "":
		response.StatusReasonCode = model.ReasonFANotFound
		response.StatusReasonMessage = "Mapping not found against given FA."
	default:
		response.StatusReasonCode = model.ReasonIDNotFound
		response.StatusReasonMessage = "Mapping not found against given ID."
	}
	return response
}
