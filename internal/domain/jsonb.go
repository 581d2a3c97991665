package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringList is a []string stored as a JSONB array in PostgreSQL.
type StringList []string

// scanJSONB unmarshals a JSONB column value into dest.
func scanJSONB(value, dest any) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return errors.New("unsupported type for JSONB scan")
	}

	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

// Scan implements the sql.Scanner interface.
func (l *StringList) Scan(value any) error {
	return scanJSONB(value, l)
}

// Value implements the driver.Valuer interface.
func (l StringList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface.
func (s *Selectors) Scan(value any) error {
	return scanJSONB(value, s)
}

// Value implements the driver.Valuer interface.
func (s Selectors) Value() (driver.Value, error) {
	return json.Marshal(s)
}

// Scan implements the sql.Scanner interface.
func (c *FetchConfig) Scan(value any) error {
	return scanJSONB(value, c)
}

// Value implements the driver.Valuer interface.
func (c FetchConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}
