package model

import "encoding/json"

// Report is the latest structured report for a company. The payload is
// passed through untouched.
type Report struct {
	ID        int64           `json:"id"`
	Company   string          `json:"company"`
	Report    json.RawMessage `json:"report"`
	CreatedAt Timestamp       `json:"created_at"`
}
