package maillib

import (
	"encoding/json"
	"fmt"

	yaml "gopkg.in/yaml.v3"
)

// Serialization adapters. Every adapter encodes the canonical form and
// re-runs the full parse-and-validate pipeline on decode; a serialized
// form is never implicitly trusted. Decode failures are reported as
// *DecodeError, wrapping either the structural problem or the
// AddressError from re-validation.

func (a EmailAddress) MarshalText() ([]byte, error) {
	return a.appendCanonical(nil), nil
}

func (a *EmailAddress) UnmarshalText(b []byte) error {
	v, err := ParseAddressBytes(b)
	if err != nil {
		return &DecodeError{Cause: err}
	}
	*a = v
	return nil
}

func (a EmailAddress) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

func (a *EmailAddress) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return &DecodeError{Cause: err}
	}
	v, err := ParseAddress(s)
	if err != nil {
		return &DecodeError{Cause: err}
	}
	*a = v
	return nil
}

func (a EmailAddress) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

func (a *EmailAddress) UnmarshalYAML(n *yaml.Node) error {
	var s string
	if err := n.Decode(&s); err != nil {
		return &DecodeError{Cause: err}
	}
	v, err := ParseAddress(s)
	if err != nil {
		return &DecodeError{Cause: err}
	}
	*a = v
	return nil
}

func (m Mailbox) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mailbox) UnmarshalText(b []byte) error {
	v, err := ParseMailboxBytes(b)
	if err != nil {
		return &DecodeError{Cause: err}
	}
	*m = v
	return nil
}

// MarshalJSON encodes the mailbox as its single canonical string, e.g.
// `"Jane Doe <jane@example.com>"`.
func (m Mailbox) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts either the canonical string or an object of the
// form {"name": ..., "address": ...} with name optional.
func (m *Mailbox) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return &DecodeError{Cause: err}
	}
	return m.decodeStructure(v)
}

func (m Mailbox) MarshalYAML() (interface{}, error) {
	return m.String(), nil
}

// UnmarshalYAML accepts the same shapes as UnmarshalJSON.
func (m *Mailbox) UnmarshalYAML(n *yaml.Node) error {
	var v interface{}
	if err := n.Decode(&v); err != nil {
		return &DecodeError{Cause: err}
	}
	return m.decodeStructure(v)
}

func (m *Mailbox) decodeStructure(v interface{}) error {
	switch v := v.(type) {
	case string:
		mb, err := ParseMailbox(v)
		if err != nil {
			return &DecodeError{Cause: err}
		}
		*m = mb
		return nil
	case map[string]interface{}:
		rawAddr, ok := v["address"].(string)
		if !ok {
			return &DecodeError{Cause: fmt.Errorf("key 'address' is not a string")}
		}
		addr, err := ParseAddress(rawAddr)
		if err != nil {
			return &DecodeError{Cause: err}
		}
		mb := Mailbox{addr: addr}
		if nv, present := v["name"]; present && nv != nil {
			name, ok := nv.(string)
			if !ok {
				return &DecodeError{Cause: fmt.Errorf("key 'name' is not a string")}
			}
			if err := validateDisplayName([]byte(name), defaultMaxDisplayNameLength); err != nil {
				return &DecodeError{Cause: err}
			}
			mb.name = name
			mb.hasName = true
		}
		*m = mb
		return nil
	}
	return &DecodeError{Cause: fmt.Errorf("mailbox is not a string or an object")}
}
