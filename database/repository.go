package database

import (
	"context"

	"github.com/openspar/mapper/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	mapping
}

// mapping defines methods for handling ID to FA mappings. Batch mutations run
// through BeginMappingTx so a whole request shares one open transaction.
type mapping interface {
	BeginMappingTx(ctx context.Context) (MappingTx, error)
	GetAllMappings(ctx context.Context, limit, offset int) ([]model.MappingRecord, error)
}

// MappingTx is the transaction-scoped view of the mapping store handed to the
// batch processor. Commit finalizes all staged mutations at once.
type MappingTx interface {
	PairExists(ctx context.Context, idValue, faValue string) (bool, error)
	GetByIDValue(ctx context.Context, idValue string) (*model.MappingRecord, error)
	FindOne(ctx context.Context, query MappingQuery) (*model.MappingRecord, error)
	InsertMapping(ctx context.Context, record model.MappingRecord) error
	UpdateMapping(ctx context.Context, record *model.MappingRecord) error
	DeleteByIDValue(ctx context.Context, idValue string) (int64, error)
	Commit() error
	Rollback() error
}
