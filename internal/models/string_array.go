package models

import (
	"encoding/json"
	"strings"
)

// StringArray is an ordered string list that always serializes as an array,
// while tolerating legacy payloads that send a single plain string.
type StringArray []string

// OrEmpty returns a non-nil list so the stored document holds [] rather than null.
func (a StringArray) OrEmpty() StringArray {
	if a == nil {
		return StringArray{}
	}
	return a
}

func (a StringArray) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(a))
}

func (a *StringArray) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "" || raw == "null" {
		*a = StringArray{}
		return nil
	}

	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*a = arr
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single == "" {
		*a = StringArray{}
	} else {
		*a = StringArray{single}
	}
	return nil
}
