package model

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// Bytes is a byte payload on the wire. It is written as base64 and read from
// either a base64 string or a JSON array of numbers (typed-array senders).
type Bytes []byte

// MarshalJSON encodes as a base64 string
func (b Bytes) MarshalJSON() ([]byte, error) {
	return json.Marshal(base64.StdEncoding.EncodeToString(b))
}

// UnmarshalJSON accepts "base64" or [1,2,3]
func (b *Bytes) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return fmt.Errorf("invalid base64 payload: %w", err)
		}
		*b = raw
		return nil
	}

	var nums []int
	if err := json.Unmarshal(data, &nums); err != nil {
		return errors.New("payload must be a base64 string or an array of bytes")
	}
	out := make([]byte, len(nums))
	for i, n := range nums {
		if n < 0 || n > 255 {
			return fmt.Errorf("payload byte %d out of range: %d", i, n)
		}
		out[i] = byte(n)
	}
	*b = out
	return nil
}
