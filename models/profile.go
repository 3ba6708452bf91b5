package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Credentials identify the account used to log in to the upstream service.
// The secret is never printed.
type Credentials struct {
	Identifier string
	Secret     string
}

// String redacts the secret so Credentials are safe to pass to a logger.
func (c Credentials) String() string {
	return "Credentials{" + c.Identifier + ", ****}"
}

// RawProfile is an unvalidated profile payload as returned by the upstream
// search. Any key may be missing and any value may have an unexpected type.
type RawProfile map[string]any

// Lookup walks a path of map keys and list indexes ("0", "1", ...) and
// reports whether the full path resolved to a non-nil value.
func (p RawProfile) Lookup(path ...string) (any, bool) {
	var cur any = map[string]any(p)
	for _, key := range path {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = v
		case RawProfile:
			v, ok := node[key]
			if !ok {
				return nil, false
			}
			cur = v
		case []any:
			idx, err := strconv.Atoi(key)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			return nil, false
		}
	}
	if cur == nil {
		return nil, false
	}
	return cur, true
}

// String returns the string at path, or nil when the path is broken or the
// value is not a string.
func (p RawProfile) String(path ...string) *string {
	v, ok := p.Lookup(path...)
	if !ok {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

// Int returns the integer at path. JSON numbers, Go integers and numeric
// strings are accepted.
func (p RawProfile) Int(path ...string) *int {
	v, ok := p.Lookup(path...)
	if !ok {
		return nil
	}
	var n int
	switch x := v.(type) {
	case float64:
		n = int(x)
	case int:
		n = x
	case int64:
		n = int(x)
	case json.Number:
		i, err := x.Int64()
		if err != nil {
			return nil
		}
		n = int(i)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return nil
		}
		n = i
	default:
		return nil
	}
	return &n
}

// List returns the list at path, or nil.
func (p RawProfile) List(path ...string) []any {
	v, ok := p.Lookup(path...)
	if !ok {
		return nil
	}
	list, _ := v.([]any)
	return list
}

// Map returns the nested mapping at path as a RawProfile, or nil.
func (p RawProfile) Map(path ...string) RawProfile {
	v, ok := p.Lookup(path...)
	if !ok {
		return nil
	}
	switch m := v.(type) {
	case map[string]any:
		return RawProfile(m)
	case RawProfile:
		return m
	}
	return nil
}

// EducationEntry is one school on a profile. Every field is optional.
type EducationEntry struct {
	School *string `json:"school,omitempty"`
	Degree *string `json:"degree,omitempty"`
	Field  *string `json:"field,omitempty"`
	Year   *int    `json:"year,omitempty"`
}

// ProfileRecord is the normalised record that is stored and exported.
// A nil scalar means the upstream payload did not carry the value.
type ProfileRecord struct {
	ProfileID *string
	Name      *string
	Headline  *string
	Company   *string
	Industry  *string
	Location  *string
	Education []EducationEntry
}

// ResultSet holds accepted records in discovery order.
type ResultSet []*ProfileRecord

// Str is a helper for building optional string fields.
func Str(s string) *string { return &s }

// Int is a helper for building optional integer fields.
func Int(n int) *int { return &n }

// Deref returns the value of an optional string, or "" when absent.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
