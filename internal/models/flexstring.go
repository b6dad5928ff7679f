package models

import "encoding/json"

// FlexString decodes from either a JSON string or a bare number. Publishers
// outside this repo send amounts both ways; the listener echoes whichever
// form arrived.
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	// Numeric token, kept verbatim.
	*f = FlexString(b)
	return nil
}

func (f FlexString) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(f))
}
