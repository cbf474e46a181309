package models

import (
	"bytes"
	"encoding/json"
)

// Ref is a reference to another record. The school API sends references either as a
// bare id or as the populated document; both decode into Ref, and Ref always encodes
// back to the bare id.
type Ref[T any] struct {
	ID    string
	Value *T
}

// RefTo builds an unpopulated reference.
func RefTo[T any](id string) Ref[T] {
	return Ref[T]{ID: id}
}

// Populated reports whether the referenced document was embedded in the payload.
func (r Ref[T]) Populated() bool {
	return r.Value != nil
}

// MarshalJSON encodes the reference as its id.
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// UnmarshalJSON accepts an id string, a populated object or null.
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}
	if trimmed[0] == '"' {
		var id string
		if err := json.Unmarshal(trimmed, &id); err != nil {
			return err
		}
		*r = Ref[T]{ID: id}
		return nil
	}

	var ids struct {
		MongoID string `json:"_id"`
		ID      string `json:"id"`
	}
	if err := json.Unmarshal(trimmed, &ids); err != nil {
		return err
	}
	var value T
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return err
	}
	r.ID = ids.MongoID
	if r.ID == "" {
		r.ID = ids.ID
	}
	r.Value = &value
	return nil
}
