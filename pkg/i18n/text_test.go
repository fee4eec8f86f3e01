package i18n

import (
	"encoding/json"
	"testing"
)

func TestResolvePlain(t *testing.T) {
	text := Plain("Thai Massage")
	if got := text.Resolve("de"); got != "Thai Massage" {
		t.Fatalf("expected plain value regardless of locale, got %q", got)
	}
}

func TestResolveLocalizedFallback(t *testing.T) {
	text := Localized(map[string]string{"en": "Aromatherapy", "th": "อโรมาเทอราพี"})

	if got := text.Resolve("th"); got != "อโรมาเทอราพี" {
		t.Fatalf("expected th translation, got %q", got)
	}
	if got := text.Resolve("de"); got != "Aromatherapy" {
		t.Fatalf("expected en fallback for missing locale, got %q", got)
	}
	if got := text.Resolve("EN-US"); got != "Aromatherapy" {
		t.Fatalf("expected locale normalization, got %q", got)
	}
}

func TestUnmarshalVariants(t *testing.T) {
	var plain Text
	if err := json.Unmarshal([]byte(`"Hot Stone"`), &plain); err != nil {
		t.Fatalf("unmarshal plain: %v", err)
	}
	if plain.Resolve("en") != "Hot Stone" {
		t.Fatalf("unexpected plain resolution")
	}

	var localized Text
	if err := json.Unmarshal([]byte(`{"en":"Foot Scrub","de":"Fusspeeling"}`), &localized); err != nil {
		t.Fatalf("unmarshal localized: %v", err)
	}
	if localized.Resolve("de") != "Fusspeeling" {
		t.Fatalf("unexpected localized resolution")
	}

	var empty Text
	if err := json.Unmarshal([]byte(`null`), &empty); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !empty.IsZero() {
		t.Fatalf("expected zero text for null")
	}
}
