package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/openspar/mapper/internal/apierror"
	"github.com/openspar/mapper/model"
)

const mappingColumns = "mapping_id, id_value, fa_value, name, phone, additional_info, active, created_at"

// MappingQuery is a lookup predicate for resolve. Empty fields are omitted
// from the query; values in the namespace wildcard form (containing ":" and
// ending with "@") match by substring instead of exact equality.
type MappingQuery struct {
	IDValue string
	FAValue string
}

func (q MappingQuery) Empty() bool {
	return q.IDValue == "" && q.FAValue == ""
}

type mappingTx struct {
	tx *sql.Tx
}

// BeginMappingTx opens the transaction that scopes one batch. All item reads
// and writes of the batch observe and stage against the same snapshot.
func (d Datasource) BeginMappingTx(ctx context.Context) (MappingTx, error) {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to begin transaction", err)
	}
	return &mappingTx{tx: tx}, nil
}

// GetAllMappings retrieves mapping rows outside any batch transaction, most
// recent first.
func (d Datasource) GetAllMappings(ctx context.Context, limit, offset int) ([]model.MappingRecord, error) {
	rows, err := d.Conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM id_fa_mappings
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, mappingColumns), limit, offset)
	if err != nil {
		return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to retrieve mappings", err)
	}
	defer rows.Close()

	var mappings []model.MappingRecord
	for rows.Next() {
		record, err := scanMapping(rows.Scan)
		if err != nil {
			return nil, apierror.NewAPIError(apierror.ErrInternalServer, "Failed to scan mapping", err)
		}
		mappings = append(mappings, *record)
	}

	return mappings, nil
}

func (m *mappingTx) PairExists(ctx context.Context, idValue, faValue string) (bool, error) {
	var exists bool
	err := m.tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM id_fa_mappings WHERE id_value = $1 AND fa_value = $2)
	`, idValue, faValue).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (m *mappingTx) GetByIDValue(ctx context.Context, idValue string) (*model.MappingRecord, error) {
	row := m.tx.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM id_fa_mappings
		WHERE id_value = $1
		LIMIT 1
	`, mappingColumns), idValue)

	record, err := scanMapping(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// FindOne runs the resolve lookup. Given predicates are ANDed; a query with
// neither ID nor FA is a caller bug and returns an error rather than a scan.
func (m *mappingTx) FindOne(ctx context.Context, query MappingQuery) (*model.MappingRecord, error) {
	if query.Empty() {
		return nil, apierror.NewAPIError(apierror.ErrBadRequest, "mapping query requires an ID or FA", nil)
	}

	var conditions []string
	var args []interface{}
	addCondition := func(column, value string) {
		position := len(args) + 1
		if model.IsWildcard(value) {
			conditions = append(conditions, fmt.Sprintf("%s LIKE $%d", column, position))
			args = append(args, "%"+value+"%")
		} else {
			conditions = append(conditions, fmt.Sprintf("%s = $%d", column, position))
			args = append(args, value)
		}
	}
	if query.IDValue != "" {
		addCondition("id_value", query.IDValue)
	}
	if query.FAValue != "" {
		addCondition("fa_value", query.FAValue)
	}

	row := m.tx.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM id_fa_mappings
		WHERE %s
		LIMIT 1
	`, mappingColumns, strings.Join(conditions, " AND ")), args...)

	record, err := scanMapping(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (m *mappingTx) InsertMapping(ctx context.Context, record model.MappingRecord) error {
	additionalInfoJSON, err := json.Marshal(record.AdditionalInfo)
	if err != nil {
		return err
	}

	_, err = m.tx.ExecContext(ctx, `
		INSERT INTO id_fa_mappings (mapping_id, id_value, fa_value, name, phone, additional_info, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, record.MappingID, record.IDValue, record.FAValue, record.Name, record.Phone, additionalInfoJSON, record.Active, record.CreatedAt)
	if err != nil {
		if IsUniqueViolation(err) {
			return apierror.NewAPIError(apierror.ErrConflict, "ID and FA are already mapped", err)
		}
		return err
	}
	return nil
}

func (m *mappingTx) UpdateMapping(ctx context.Context, record *model.MappingRecord) error {
	additionalInfoJSON, err := json.Marshal(record.AdditionalInfo)
	if err != nil {
		return err
	}

	_, err = m.tx.ExecContext(ctx, `
		UPDATE id_fa_mappings
		SET fa_value = $2, name = $3, phone = $4, additional_info = $5, active = $6
		WHERE mapping_id = $1
	`, record.MappingID, record.FAValue, record.Name, record.Phone, additionalInfoJSON, record.Active)
	return err
}

// DeleteByIDValue removes every row for the given ID and reports how many
// rows went away. Unlink hard-deletes rather than flipping active.
func (m *mappingTx) DeleteByIDValue(ctx context.Context, idValue string) (int64, error) {
	result, err := m.tx.ExecContext(ctx, `
		DELETE FROM id_fa_mappings
		WHERE id_value = $1
	`, idValue)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (m *mappingTx) Commit() error {
	return m.tx.Commit()
}

func (m *mappingTx) Rollback() error {
	return m.tx.Rollback()
}

// IsUniqueViolation reports whether a database error is the Postgres
// unique-constraint violation raised when two requests race to link the same
// (id_value, fa_value) pair.
func IsUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}

func scanMapping(scan func(dest ...interface{}) error) (*model.MappingRecord, error) {
	record := &model.MappingRecord{}
	var additionalInfoJSON []byte
	err := scan(
		&record.MappingID, &record.IDValue, &record.FAValue,
		&record.Name, &record.Phone, &additionalInfoJSON,
		&record.Active, &record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(additionalInfoJSON) > 0 {
		if err := json.Unmarshal(additionalInfoJSON, &record.AdditionalInfo); err != nil {
			return nil, err
		}
	}
	return record, nil
}
