package mapper

import (
	"context"

	"github.com/openspar/mapper/database"
	"github.com/openspar/mapper/model"
)

// processUpdate merges each passing item into the record stored for its ID.
// FA, name and phone are overwritten only when non-empty; additional info is
// merged by attribute name so unlisted attributes survive and repeating an
// update changes nothing.
func (m *Mapper) processUpdate(ctx context.Context, tx database.MappingTx, items []model.Item) ([]model.SingleResponse, error) {
	responses := make([]model.SingleResponse, 0, len(items))

	for _, item := range items {
		rejection, err := validateUpdateItem(ctx, tx, item)
		if err != nil {
			return nil, err
		}
		if rejection != nil {
			responses = append(responses, rejectedResponse(item, rejection))
			continue
		}

		record, err := tx.GetByIDValue(ctx, item.ID)
		if err != nil {
			return nil, err
		}

		record.ApplyUpdate(item)
		if err := tx.UpdateMapping(ctx, record); err != nil {
			return nil, err
		}
		responses = append(responses, succeededResponse(item))
	}

	return responses, nil
}
