package mapper

import (
	"context"

	"github.com/openspar/mapper/database"
	"github.com/openspar/mapper/model"
)

// processLink stages one new mapping per passing item. Records become visible
// together when the batch transaction commits.
func (m *Mapper) processLink(ctx context.Context, tx database.MappingTx, items []model.Item) ([]model.SingleResponse, error) {
	responses := make([]model.SingleResponse, 0, len(items))

	for _, item := range items {
		rejection, err := validateLinkItem(ctx, tx, item)
		if err != nil {
			return nil, err
		}
		if rejection != nil {
			responses = append(responses, rejectedResponse(item, rejection))
			continue
		}

		if err := tx.InsertMapping(ctx, model.NewMappingRecord(item)); err != nil {
			return nil, err
		}
		responses = append(responses, succeededResponse(item))
	}

	return responses, nil
}
