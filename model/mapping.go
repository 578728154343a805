package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MappingRecord is the persisted ID to FA mapping row. The (IDValue, FAValue)
// pair is the unit of existence for link and resolve; update and unlink key
// off IDValue alone.
type MappingRecord struct {
	MappingID      string           `json:"mapping_id"`
	IDValue        string           `json:"id_value"`
	FAValue        string           `json:"fa_value"`
	Name           string           `json:"name,omitempty"`
	Phone          string           `json:"phone,omitempty"`
	AdditionalInfo []AdditionalInfo `json:"additional_info,omitempty"`
	Active         bool             `json:"active"`
	CreatedAt      time.Time        `json:"created_at"`
}

// AdditionalInfo is one auxiliary attribute of a mapping. The list is ordered;
// attribute names are expected to be unique within a record.
type AdditionalInfo struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

func GenerateUUIDWithSuffix(module string) string {
	id := uuid.New()
	uuidStr := id.String()
	idWithSuffix := fmt.Sprintf("%s_%s", module, uuidStr)
	return idWithSuffix
}

// NewMappingRecord builds the record staged by a successful link item.
func NewMappingRecord(item Item) MappingRecord {
	return MappingRecord{
		MappingID:      GenerateUUIDWithSuffix("map"),
		IDValue:        item.ID,
		FAValue:        item.FA,
		Name:           item.Name,
		Phone:          item.PhoneNumber,
		AdditionalInfo: item.AdditionalInfo,
		Active:         true,
		CreatedAt:      time.Now(),
	}
}

// ApplyUpdate merges an update item into the record. FA, name and phone are
// overwritten only when the incoming value is non-empty. Additional info is
// merged by attribute name so that repeating the same update is idempotent and
// unlisted attributes survive.
func (r *MappingRecord) ApplyUpdate(item Item) {
	if item.FA != "" {
		r.FAValue = item.FA
	}
	if item.Name != "" {
		r.Name = item.Name
	}
	if item.PhoneNumber != "" {
		r.Phone = item.PhoneNumber
	}
	if len(item.AdditionalInfo) > 0 {
		r.AdditionalInfo = MergeAdditionalInfo(r.AdditionalInfo, item.AdditionalInfo)
	}
}

// MergeAdditionalInfo replaces entries whose name matches an incoming
// attribute in place and appends the rest, preserving existing order.
func MergeAdditionalInfo(existing, incoming []AdditionalInfo) []AdditionalInfo {
	merged := make([]AdditionalInfo, len(existing))
	copy(merged, existing)
	for _, info := range incoming {
		replaced := false
		for i, have := range merged {
			if have.Name == info.Name {
				merged[i] = info
				replaced = true
				break
			}
		}
		if !replaced {
			merged = append(merged, info)
		}
	}
	return merged
}

// IsWildcard reports whether a resolve value is a namespace pattern: it
// contains a colon and ends with "@", e.g. "account:bank1@". Such values are
// matched by substring search instead of exact equality.
func IsWildcard(value string) bool {
	return strings.HasSuffix(value, "@") && strings.Contains(value, ":")
}
