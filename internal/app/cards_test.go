package app

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"blanks/internal/domain"
)

func TestDefaultCardSetIsValid(t *testing.T) {
	set := DefaultCardSet()
	if err := set.Validate(); err != nil {
		t.Fatalf("built-in card set invalid: %v", err)
	}

	blanks := 0
	for _, r := range set.Responses {
		if r.Blank {
			blanks++
		}
	}
	if blanks == 0 {
		t.Fatal("built-in card set has no blank cards")
	}

	// With a full room at the default hand size, the first deal must not
	// exhaust the response pool.
	settings := domain.DefaultSettings()
	if len(set.Responses) < settings.MaxPlayers*settings.HandSize {
		t.Fatalf("response pool %d too small for %d players at hand size %d",
			len(set.Responses), settings.MaxPlayers, settings.HandSize)
	}
}

func writeCardFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write card file: %v", err)
	}
	return path
}

func TestLoadCardSet(t *testing.T) {
	path := writeCardFile(t, `{
		"prompts": [
			{"text": "  why ____?  "},
			{"text": "____ vs ____", "pick": 2}
		],
		"responses": [
			{"text": " a thing "},
			{"text": "", "blank": true}
		]
	}`)

	set, err := LoadCardSet(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if set.Prompts[0].Text != "why ____?" {
		t.Fatalf("prompt text not trimmed: %q", set.Prompts[0].Text)
	}
	if set.Prompts[0].Pick != 1 {
		t.Fatalf("missing pick not defaulted: %d", set.Prompts[0].Pick)
	}
	if set.Prompts[1].Pick != 2 {
		t.Fatalf("explicit pick lost: %d", set.Prompts[1].Pick)
	}
	if set.Responses[0].Text != "a thing" {
		t.Fatalf("response text not trimmed: %q", set.Responses[0].Text)
	}
	if !set.Responses[1].Blank {
		t.Fatal("blank flag lost")
	}
}

func TestLoadCardSetErrors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    error
	}{
		{"no prompts", `{"responses": [{"text": "x"}]}`, domain.ErrEmptyCardSet},
		{"no responses", `{"prompts": [{"text": "____"}]}`, domain.ErrEmptyCardSet},
		{"empty non-blank response", `{"prompts": [{"text": "____"}], "responses": [{"text": "   "}]}`, domain.ErrInvalidCard},
		{"pick out of range", `{"prompts": [{"text": "____", "pick": 3}], "responses": [{"text": "x"}]}`, domain.ErrInvalidCard},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeCardFile(t, tc.content)
			if _, err := LoadCardSet(path); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadCardSetBadInput(t *testing.T) {
	if _, err := LoadCardSet(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}

	path := writeCardFile(t, `{not json`)
	if _, err := LoadCardSet(path); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}
