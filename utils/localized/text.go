// Package localized models text fields that arrive either as a plain string
// or as a per-language object (e.g. {"en": "...", "uz": "..."}). Legacy rows
// mix both shapes, so the type round-trips JSON in whichever form it was
// stored and resolves to a single string with a deterministic fallback order.
package localized

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultLanguage is the resolution language used when the caller does not ask
// for a specific one.
const DefaultLanguage = "en"

// Untitled is the terminal fallback when a text carries no usable value.
const Untitled = "Untitled"

// Text is a tagged union: either a plain string or a language-keyed map.
// The zero value is an empty plain string.
type Text struct {
	plain  string
	byLang map[string]string
}

// Plain builds a plain-string text.
func Plain(s string) Text {
	return Text{plain: s}
}

// Map builds a language-keyed text. The map is copied.
func Map(m map[string]string) Text {
	cp := make(map[string]string, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return Text{byLang: cp}
}

// IsLocalized reports whether the text carries per-language values.
func (t Text) IsLocalized() bool {
	return t.byLang != nil
}

// IsEmpty reports whether the text resolves to nothing in every language.
func (t Text) IsEmpty() bool {
	if t.byLang == nil {
		return strings.TrimSpace(t.plain) == ""
	}
	for _, v := range t.byLang {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Resolve returns the best value for the requested language.
// Fallback order: requested language, "en", "uz", first available key in
// sorted order, then Untitled.
func (t Text) Resolve(lang string) string {
	if t.byLang == nil {
		if strings.TrimSpace(t.plain) == "" {
			return Untitled
		}
		return t.plain
	}

	for _, candidate := range []string{lang, "en", "uz"} {
		if candidate == "" {
			continue
		}
		if v, ok := t.byLang[candidate]; ok && strings.TrimSpace(v) != "" {
			return v
		}
	}

	// Deterministic "first available": smallest key with a non-empty value.
	keys := make([]string, 0, len(t.byLang))
	for k := range t.byLang {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if strings.TrimSpace(t.byLang[k]) != "" {
			return t.byLang[k]
		}
	}

	return Untitled
}

// String resolves with the default language.
func (t Text) String() string {
	return t.Resolve(DefaultLanguage)
}

// MarshalJSON writes the text back in its stored shape.
func (t Text) MarshalJSON() ([]byte, error) {
	if t.byLang != nil {
		return json.Marshal(t.byLang)
	}
	return json.Marshal(t.plain)
}

// UnmarshalJSON accepts either a JSON string or a string-valued object.
func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text{plain: s}
		return nil
	}

	var m map[string]string
	if err := json.Unmarshal(data, &m); err == nil {
		*t = Text{byLang: m}
		return nil
	}

	return fmt.Errorf("localized: value is neither a string nor a language map: %s", string(data))
}

// Value implements driver.Valuer so the text persists as JSONB.
func (t Text) Value() (driver.Value, error) {
	b, err := json.Marshal(t)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSONB columns.
func (t *Text) Scan(value interface{}) error {
	if value == nil {
		*t = Text{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("localized: unsupported scan source")
	}

	if len(data) == 0 {
		*t = Text{}
		return nil
	}
	return t.UnmarshalJSON(data)
}

// GormDataType reports the column type used by AutoMigrate.
func (Text) GormDataType() string {
	return "jsonb"
}
