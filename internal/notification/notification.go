// Package notification defines the change envelope pushed to subscribers
// when an entity is created, updated or deleted, and the brokers that carry it.
package notification

import (
	"encoding/json"
	"fmt"
	"time"
)

type Type string

const (
	Create Type = "CREATE"
	Update Type = "UPDATE"
	Delete Type = "DELETE"
)

// TimeLayout is the local, zone-less ISO-8601 stamp used for CreatedAt.
const TimeLayout = "2006-01-02T15:04:05.000000"

func (t Type) Valid() bool {
	switch t {
	case Create, Update, Delete:
		return true
	}
	return false
}

func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("notification: unknown type %q", s)
	}
	return t, nil
}

func (t *Type) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseType(s)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// Notification is never persisted. Data is the post-mutation state.
type Notification[T any] struct {
	Entity    string `json:"entity"`
	Type      Type   `json:"type"`
	Data      T      `json:"data"`
	CreatedAt string `json:"createdAt"`
}

var now = time.Now

func New[T any](entity string, typ Type, data T) (Notification[T], error) {
	if !typ.Valid() {
		return Notification[T]{}, fmt.Errorf("notification: unknown type %q", typ)
	}
	return Notification[T]{
		Entity:    entity,
		Type:      typ,
		Data:      data,
		CreatedAt: now().Format(TimeLayout),
	}, nil
}
