package mapper

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/openspar/mapper/model"
)

// SubmitAsync accepts an async request: it issues a correlation id, schedules
// the batch on the dispatch pool and returns before any processing has run.
// The caller learns the final outcome only through the callback, which may
// never arrive.
func (m *Mapper) SubmitAsync(op model.Operation, req *model.MapperRequest) (string, *JobHandle, error) {
	correlationID := uuid.New().String()

	handle, err := m.dispatcher.Submit(func(ctx context.Context) {
		responses, err := m.Process(ctx, op, req)
		if err != nil {
			// The batch aborted on a store fault. There is no result to
			// report, so no callback goes out.
			logrus.Errorf("async %s batch %s failed: %v", op, correlationID, err)
			return
		}

		payload := AssembleCallback(req, op, correlationID, responses)
		m.DeliverCallback(ctx, op, req.Header.SenderURI, payload)
	})
	if err != nil {
		return "", nil, err
	}

	return correlationID, handle, nil
}

// SubmitErrorCallback delivers an error envelope for a request rejected
// before its batch ever started, through the same best-effort path as
// success callbacks.
func (m *Mapper) SubmitErrorCallback(op model.Operation, req *model.MapperRequest, verr *RequestValidationError) (*JobHandle, error) {
	return m.dispatcher.Submit(func(ctx context.Context) {
		payload := AssembleErrorResponse(req, op, verr)
		m.DeliverCallback(ctx, op, req.Header.SenderURI, payload)
	})
}
