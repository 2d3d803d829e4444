package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
)

// Ref is an optional reference to another row. A zero Ref means the target
// is unknown or has been deleted; it is stored as NULL and encoded as JSON null.
type Ref struct {
	ID    uint
	Valid bool
}

// RefTo returns a valid reference to id.
func RefTo(id uint) Ref {
	return Ref{ID: id, Valid: true}
}

// OrZero returns the referenced id, or 0 for an absent reference.
func (r Ref) OrZero() uint {
	if !r.Valid {
		return 0
	}
	return r.ID
}

// GormDataType keeps the column an unsigned integer on every dialect.
func (Ref) GormDataType() string {
	return "uint"
}

// Scan implements sql.Scanner.
func (r *Ref) Scan(value interface{}) error {
	if value == nil {
		*r = Ref{}
		return nil
	}
	var id uint64
	switch v := value.(type) {
	case int64:
		if v < 0 {
			return fmt.Errorf("models.Ref: negative id %d", v)
		}
		id = uint64(v)
	case uint64:
		id = v
	case []byte:
		n, err := strconv.ParseUint(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("models.Ref: %w", err)
		}
		id = n
	case string:
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("models.Ref: %w", err)
		}
		id = n
	default:
		return fmt.Errorf("models.Ref: cannot scan %T", value)
	}
	*r = RefTo(uint(id))
	return nil
}

// Value implements driver.Valuer.
func (r Ref) Value() (driver.Value, error) {
	if !r.Valid {
		return nil, nil
	}
	return int64(r.ID), nil
}

func (r Ref) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = Ref{}
		return nil
	}
	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return fmt.Errorf("models.Ref: %w", err)
	}
	*r = RefTo(id)
	return nil
}
