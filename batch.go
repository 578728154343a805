package mapper

import (
	"context"
	"time"

	"github.com/openspar/mapper/model"
)

// Process runs one batch inside one transactional scope: all items share the
// open transaction and a single commit finalizes every staged mutation. Items
// are processed in request order. Typed validation failures become rejected
// per-item outcomes; any other error aborts the batch and rolls back.
func (m *Mapper) Process(ctx context.Context, op model.Operation, req *model.MapperRequest) ([]model.SingleResponse, error) {
	tx, err := m.datasource.BeginMappingTx(ctx)
	if err != nil {
		return nil, err
	}

	items := req.Message.Items(op)

	var responses []model.SingleResponse
	switch op {
	case model.OpLink:
		responses, err = m.processLink(ctx, tx, items)
	case model.OpUpdate:
		responses, err = m.processUpdate(ctx, tx, items)
	case model.OpResolve:
		responses, err = m.processResolve(ctx, tx, items)
	case model.OpUnlink:
		responses, err = m.processUnlink(ctx, tx, items)
	}
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return responses, nil
}

func succeededResponse(item model.Item) model.SingleResponse {
	return model.SingleResponse{
		ReferenceID: item.ReferenceID,
		Timestamp:   time.Now(),
		FA:          item.FA,
		Status:      model.StatusSucc,
		Locale:      item.Locale,
	}
}

func rejectedResponse(item model.Item, rejection *model.Rejection) model.SingleResponse {
	return model.SingleResponse{
		ReferenceID:         item.ReferenceID,
		Timestamp:           time.Now(),
		FA:                  item.FA,
		Status:              model.StatusRjct,
		StatusReasonCode:    rejection.Code,
		StatusReasonMessage: rejection.Message,
		Locale:              item.Locale,
	}
}
