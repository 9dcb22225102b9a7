package utils

import (
	"bytes"
	"encoding/json"
)

// NullableString tells apart a missing JSON key (Set=false), an explicit null
// (Set=true, Value=nil) and a value.
type NullableString struct {
	Set   bool
	Value *string
}

func (n *NullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

func NewNullableString(s string) NullableString {
	return NullableString{Set: true, Value: &s}
}
