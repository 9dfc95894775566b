package models

import "encoding/json"

// Address is one saved delivery address. Fields holds the client-supplied
// address document verbatim; the server treats it as opaque JSON.
type Address struct {
	ID     string
	UserID string
	Fields json.RawMessage
}
