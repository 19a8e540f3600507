package gemini

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/open-lectern/lectern/internal/core/domain"
)

func TestParseReplyReadsPlainJSONArray(t *testing.T) {
	raw := `[
  {"term": "entropy", "definition": "measure of disorder", "context": "introduced on page two"},
  {"term": "enthalpy", "definition": "total heat content", "context": "contrasted with entropy"}
]`

	items, tier := ParseReply(raw)
	if tier != TierDirect {
		t.Fatalf("tier = %q, want %q", tier, TierDirect)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Term != "entropy" || items[1].Term != "enthalpy" {
		t.Fatalf("item order not preserved: %+v", items)
	}
}

func TestParseReplyAcceptsEmptyArray(t *testing.T) {
	items, tier := ParseReply("[]")
	if tier != TierDirect {
		t.Fatalf("tier = %q, want %q", tier, TierDirect)
	}
	if items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", items)
	}
}

func TestParseReplyReadsFencedBlock(t *testing.T) {
	raw := "Sure! Here is the glossary you asked for:\n" +
		"```json\n" +
		`[{"term": "flux", "definition": "rate of flow", "context": "field lines section"}]` + "\n" +
		"```\n" +
		"Let me know if you need more."

	items, tier := ParseReply(raw)
	if tier != TierFenced {
		t.Fatalf("tier = %q, want %q", tier, TierFenced)
	}
	if len(items) != 1 || items[0].Term != "flux" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestParseReplyReadsFenceWithoutLanguageTag(t *testing.T) {
	raw := "```\n[{\"term\": \"qubit\", \"definition\": \"quantum bit\", \"context\": \"lecture intro\"}]\n```"

	items, tier := ParseReply(raw)
	if tier != TierFenced {
		t.Fatalf("tier = %q, want %q", tier, TierFenced)
	}
	if len(items) != 1 || items[0].Term != "qubit" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestParseReplySalvagesArrayFromSurroundingProse(t *testing.T) {
	raw := `The terms I found are [{"term": "osmosis", "definition": "diffusion through a membrane", "context": "cell transport"}] which should help.`

	items, tier := ParseReply(raw)
	if tier != TierBracket {
		t.Fatalf("tier = %q, want %q", tier, TierBracket)
	}
	if len(items) != 1 || items[0].Term != "osmosis" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestParseReplyDegradesWhenNothingParses(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"prose", "I could not find any technical terms in this material."},
		{"object not array", `{"term": "alone", "definition": "an object, not an array"}`},
		{"null", "null"},
		{"empty", ""},
		{"number array", "[1, 2, 3]"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, tier := ParseReply(tc.raw)
			if tier != TierFallback {
				t.Fatalf("tier = %q, want %q", tier, TierFallback)
			}
			if len(items) != 1 {
				t.Fatalf("len(items) = %d, want 1", len(items))
			}
			if items[0].Term != domain.ParseFailureTerm {
				t.Fatalf("Term = %q, want %q", items[0].Term, domain.ParseFailureTerm)
			}
			if items[0].Definition != domain.ParseFailureDefinition {
				t.Fatalf("Definition = %q, want %q", items[0].Definition, domain.ParseFailureDefinition)
			}
			if items[0].Context != strings.TrimSpace(tc.raw) {
				t.Fatalf("Context = %q, want trimmed raw text", items[0].Context)
			}
			if !domain.IsDegraded(items) {
				t.Fatalf("expected IsDegraded for %+v", items)
			}
		})
	}
}

func TestParseReplyDegradedContextCapped(t *testing.T) {
	raw := "  " + strings.Repeat("あ", 700) + "  "

	items, tier := ParseReply(raw)
	if tier != TierFallback {
		t.Fatalf("tier = %q, want %q", tier, TierFallback)
	}
	if got := utf8.RuneCountInString(items[0].Context); got != 500 {
		t.Fatalf("context runes = %d, want 500", got)
	}
	if !strings.HasPrefix(items[0].Context, "あ") {
		t.Fatalf("context should start with trimmed payload")
	}
}

func TestParseReplyDefaultsMissingFields(t *testing.T) {
	items, tier := ParseReply(`[{"term": "lone term"}]`)
	if tier != TierDirect {
		t.Fatalf("tier = %q, want %q", tier, TierDirect)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Term != "lone term" || items[0].Definition != "" || items[0].Context != "" {
		t.Fatalf("unexpected item: %+v", items[0])
	}
}

func TestParseReplyPrefersDirectOverFence(t *testing.T) {
	// The whole trimmed reply is already an array, so the fenced strategy
	// never runs even though the text contains backticks inside a field.
	raw := `[{"term": "fence", "definition": "see ` + "```code```" + ` blocks", "context": ""}]`

	items, tier := ParseReply(raw)
	if tier != TierDirect {
		t.Fatalf("tier = %q, want %q", tier, TierDirect)
	}
	if len(items) != 1 || items[0].Term != "fence" {
		t.Fatalf("unexpected items: %+v", items)
	}
}
