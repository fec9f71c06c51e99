package id

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// GenerateID creates a unique 16-character lowercase hex ID.
func GenerateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// RequestID returns a full UUID used to correlate log lines of one request.
func RequestID() string {
	return uuid.NewString()
}

// Flex is an id decoded from either a JSON string or a JSON number.
// Seed documents and json-server collections use both.
type Flex string

func (f *Flex) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Flex(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = Flex(n.String())
	return nil
}
