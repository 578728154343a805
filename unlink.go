package mapper

import (
	"context"

	"github.com/openspar/mapper/database"
	"github.com/openspar/mapper/model"
)

// processUnlink hard-deletes every row stored for each passing item's ID.
func (m *Mapper) processUnlink(ctx context.Context, tx database.MappingTx, items []model.Item) ([]model.SingleResponse, error) {
	responses := make([]model.SingleResponse, 0, len(items))

	for _, item := range items {
		rejection, err := validateUnlinkItem(ctx, tx, item)
		if err != nil {
			return nil, err
		}
		if rejection != nil {
			responses = append(responses, rejectedResponse(item, rejection))
			continue
		}

		if _, err := tx.DeleteByIDValue(ctx, item.ID); err != nil {
			return nil, err
		}
		responses = append(responses, succeededResponse(item))
	}

	return responses, nil
}
