package localized

import (
	"encoding/json"
	"testing"
)

func TestResolvePlain(t *testing.T) {
	text := Plain("Merit Award")
	if got := text.Resolve("uz"); got != "Merit Award" {
		t.Fatalf("Resolve = %q, want the plain value for every language", got)
	}
}

func TestResolveFallbackChain(t *testing.T) {
	text := Map(map[string]string{
		"en": "Excellence Scholarship",
		"uz": "Mukammallik granti",
	})

	if got := text.Resolve("uz"); got != "Mukammallik granti" {
		t.Errorf("requested language = %q, want the uz value", got)
	}
	if got := text.Resolve("ru"); got != "Excellence Scholarship" {
		t.Errorf("missing language = %q, want the en fallback", got)
	}

	// Without en the chain falls through to uz.
	text = Map(map[string]string{"uz": "Mukammallik granti"})
	if got := text.Resolve("ru"); got != "Mukammallik granti" {
		t.Errorf("en missing = %q, want the uz fallback", got)
	}

	// Neither en nor uz: the smallest key with a value wins.
	text = Map(map[string]string{"ru": "Грант", "de": "Stipendium"})
	if got := text.Resolve("fr"); got != "Stipendium" {
		t.Errorf("sorted-key fallback = %q, want the de value", got)
	}
}

func TestResolveUntitled(t *testing.T) {
	cases := []Text{
		{},
		Plain("   "),
		Map(map[string]string{}),
		Map(map[string]string{"en": "  "}),
	}
	for i, text := range cases {
		if got := text.Resolve("en"); got != Untitled {
			t.Errorf("case %d: Resolve = %q, want %q", i, got, Untitled)
		}
	}
}

func TestJSONKeepsShape(t *testing.T) {
	var fromString Text
	if err := json.Unmarshal([]byte(`"Merit Award"`), &fromString); err != nil {
		t.Fatalf("unmarshal string: %v", err)
	}
	if fromString.IsLocalized() {
		t.Error("a JSON string should decode as a plain text")
	}
	out, err := json.Marshal(fromString)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"Merit Award"` {
		t.Errorf("plain text re-encoded as %s", out)
	}

	var fromMap Text
	if err := json.Unmarshal([]byte(`{"en":"Award","uz":"Grant"}`), &fromMap); err != nil {
		t.Fatalf("unmarshal map: %v", err)
	}
	if !fromMap.IsLocalized() {
		t.Error("a JSON object should decode as a localized text")
	}
	if got := fromMap.Resolve("uz"); got != "Grant" {
		t.Errorf("decoded map Resolve = %q, want %q", got, "Grant")
	}
}

func TestJSONRejectsOtherShapes(t *testing.T) {
	var text Text
	if err := json.Unmarshal([]byte(`42`), &text); err == nil {
		t.Fatal("a JSON number should not decode as a text")
	}
}

func TestScanRoundTrip(t *testing.T) {
	original := Map(map[string]string{"en": "Award", "uz": "Grant"})

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}

	var scanned Text
	if err := scanned.Scan(value); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if got := scanned.Resolve("uz"); got != "Grant" {
		t.Errorf("round-tripped Resolve = %q, want %q", got, "Grant")
	}
}
