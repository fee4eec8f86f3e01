// Package i18n provides a tagged text variant for fields that may be stored
// either as a plain string or as a locale-keyed object. Legacy catalog rows
// predate localization and still carry plain strings.
package i18n

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// DefaultLocale is the fallback used when a requested locale is missing.
const DefaultLocale = "en"

var ErrInvalidText = errors.New("i18n: invalid text value")

// Text is either Plain(string) or Localized(map[locale]string).
type Text struct {
	plain     string
	localized map[string]string
}

func Plain(s string) Text {
	return Text{plain: s}
}

func Localized(values map[string]string) Text {
	copied := make(map[string]string, len(values))
	for locale, v := range values {
		copied[normalizeLocale(locale)] = v
	}
	return Text{localized: copied}
}

// IsZero reports whether the text carries no value at all.
func (t Text) IsZero() bool {
	return t.plain == "" && len(t.localized) == 0
}

// Resolve returns the text for the given locale, falling back to the default
// locale and then to any available translation. Plain text ignores the locale.
func (t Text) Resolve(locale string) string {
	if t.localized == nil {
		return t.plain
	}
	locale = normalizeLocale(locale)
	if v, ok := t.localized[locale]; ok && v != "" {
		return v
	}
	if v, ok := t.localized[DefaultLocale]; ok && v != "" {
		return v
	}
	for _, v := range t.localized {
		if v != "" {
			return v
		}
	}
	return ""
}

func (t Text) MarshalJSON() ([]byte, error) {
	if t.localized != nil {
		return json.Marshal(t.localized)
	}
	return json.Marshal(t.plain)
}

func (t *Text) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*t = Text{}
		return nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var values map[string]string
		if err := json.Unmarshal(data, &values); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidText, err)
		}
		*t = Localized(values)
		return nil
	}
	var plain string
	if err := json.Unmarshal(data, &plain); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidText, err)
	}
	*t = Plain(plain)
	return nil
}

// Value implements driver.Valuer so Text persists as a JSON column.
func (t Text) Value() (driver.Value, error) {
	b, err := t.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *Text) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Text{}
		return nil
	case []byte:
		return t.UnmarshalJSON(v)
	case string:
		return t.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("%w: unsupported source %T", ErrInvalidText, src)
	}
}

// GormDataType tells gorm to treat the column as jsonb.
func (Text) GormDataType() string { return "jsonb" }

func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		locale = locale[:idx]
	}
	return locale
}
