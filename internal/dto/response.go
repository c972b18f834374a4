package dto

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ── Paging ──

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// ListQuery common limit/offset parameters.
type ListQuery struct {
	Limit  int `form:"limit"  binding:"omitempty,min=0"`
	Offset int `form:"offset" binding:"omitempty,min=0"`
}

// Page returns offset and limit, applying defaultLimit and the cap.
func (q *ListQuery) Page(defaultLimit int) (offset, limit int) {
	limit = q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	offset = q.Offset
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

// ── Lenient request fields ──

// Optional distinguishes an absent JSON field (Set false) from an explicit
// null (Set true, Value nil).
type Optional[T any] struct {
	Set   bool
	Value *T
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// Some builds a set Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: &v}
}

// FlexInt accepts an integer given as a JSON number or a numeric string.
// Anything else decodes without error but leaves Valid false, so callers
// can report a field-specific code.
type FlexInt struct {
	Value int64
	Set   bool
	Valid bool
}

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	f.Set = true
	s := string(b)
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return nil
		}
		s = strings.TrimSpace(str)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	f.Value, f.Valid = n, true
	return nil
}

// ID returns the value as a positive id.
func (f FlexInt) ID() (uint, bool) {
	if !f.Valid || f.Value <= 0 {
		return 0, false
	}
	return uint(f.Value), true
}

// Int builds a valid FlexInt, mainly for tests.
func Int(v int64) FlexInt {
	return FlexInt{Value: v, Set: true, Valid: true}
}

// ── Shared fragments ──

// IDName a referenced entity.
type IDName struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// NameRef a referenced entity shown by name only.
type NameRef struct {
	Name string `json:"name"`
}

// MessageResponse a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
