package mapper

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/openspar/mapper/config"
	"github.com/openspar/mapper/database"
	"github.com/openspar/mapper/model"
)

func newTestMapper(t *testing.T) (*Mapper, sqlmock.Sqlmock) {
	t.Helper()

	config.MockConfig(&config.Configuration{
		DataSource: config.DataSourceConfig{Dns: "postgres://postgres:@localhost:5432/mapper?sslmode=disable"},
	})

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	m, err := NewMapper(database.Datasource{Conn: db})
	if err != nil {
		t.Fatalf("Failed to create mapper: %v", err)
	}
	return m, mock
}

func buildRequest(op model.Operation, items []model.Item) *model.MapperRequest {
	req := &model.MapperRequest{
		Header: model.RequestHeader{
			MessageID:  "msg-1",
			Action:     string(op),
			SenderID:   "registry.caller",
			ReceiverID: "spar.mapper",
		},
		Message: model.RequestMessage{TransactionID: "txn-1"},
	}
	req.Message.SetItems(op, items)
	return req
}
