package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
)

// encodeJSON marshals a value for storage in a TEXT column. Nil slices and
// maps are stored as empty JSON containers so reads never see SQL NULL for
// list-valued fields.
func encodeJSON(v interface{}) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode json column: %w", err)
	}
	return string(data), nil
}

// decodeJSON unmarshals a nullable TEXT column into dst. NULL and the empty
// string leave dst at its zero value.
func decodeJSON(col sql.NullString, dst interface{}) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(col.String), dst); err != nil {
		return fmt.Errorf("failed to decode json column: %w", err)
	}
	return nil
}
