// Package models defines data structures for KB-infodigest
package models

import (
	"strconv"
	"strings"
)

// Payload is a decoded upstream JSON object. The stock APIs drift their
// schemas between markets and over time, so payloads are kept dynamic and
// queried defensively instead of being bound to fixed structs.
type Payload map[string]any

// Str returns the value at key rendered as a trimmed string, or "" when the
// key is absent or holds a non-scalar.
func (p Payload) Str(key string) string {
	if p == nil {
		return ""
	}
	return scalarString(p[key])
}

// FirstStr returns the first non-empty string value among the candidate keys.
func (p Payload) FirstStr(keys ...string) string {
	for _, key := range keys {
		if v := p.Str(key); v != "" {
			return v
		}
	}
	return ""
}

// Map returns the nested object at key, or nil.
func (p Payload) Map(key string) Payload {
	if p == nil {
		return nil
	}
	if m, ok := p[key].(map[string]any); ok {
		return Payload(m)
	}
	return nil
}

// List returns the object rows of the list at key. Non-object rows are
// skipped; a missing or non-list value yields nil.
func (p Payload) List(key string) []Payload {
	if p == nil {
		return nil
	}
	raw, ok := p[key].([]any)
	if !ok {
		return nil
	}
	rows := make([]Payload, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			rows = append(rows, Payload(m))
		}
	}
	return rows
}

// HasList reports whether key holds a JSON list, regardless of row shape.
func (p Payload) HasList(key string) bool {
	if p == nil {
		return false
	}
	_, ok := p[key].([]any)
	return ok
}

func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// FieldTable is a flat lookup of provider-assigned field codes to display
// values, built from the "total infos" style list payloads. It is the
// authoritative source for most secondary metrics.
type FieldTable map[string]string

// BuildFieldTable extracts {code,value} rows into a code-keyed lookup.
// Rows missing either part are ignored.
func BuildFieldTable(rows []Payload) FieldTable {
	table := make(FieldTable, len(rows))
	for _, row := range rows {
		code := row.Str("code")
		value := row.Str("value")
		if code != "" && value != "" {
			table[code] = value
		}
	}
	return table
}

// Get returns the display value for a field code, or "".
func (t FieldTable) Get(code string) string {
	return t[code]
}

// First returns the value of the first field code present in the table.
func (t FieldTable) First(codes ...string) string {
	for _, code := range codes {
		if v := t[code]; v != "" {
			return v
		}
	}
	return ""
}
