package common

import (
	"bytes"
	"encoding/json"
)

// ConvertToJSON encodes input as a single-line JSON string for the
// wire protocol.
func ConvertToJSON(input interface{}) (string, error) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	if err := enc.Encode(input); err != nil {
		return "", err
	}
	return string(bytes.TrimSpace(b.Bytes())), nil
}
