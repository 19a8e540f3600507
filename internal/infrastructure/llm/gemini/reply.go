package gemini

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/open-lectern/lectern/internal/core/domain"
)

// Tier names the strategy that produced the parsed items.
type Tier string

const (
	TierDirect   Tier = "direct"
	TierFenced   Tier = "fenced"
	TierBracket  Tier = "bracket"
	TierFallback Tier = "fallback"
)

const degradedContextRunes = 500

var fencedBlock = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)```")

// ParseReply turns a model reply into glossary items. It never fails.
// Strategies are tried in order: the trimmed reply as a JSON array, the
// first fenced code block, the span from the first '[' to the last ']'.
// A reply none of them can read degrades to a single item that carries the
// head of the raw text in its context field.
func ParseReply(raw string) ([]domain.GlossaryItem, Tier) {
	if items, ok := parseItems(strings.TrimSpace(raw)); ok {
		return items, TierDirect
	}

	if m := fencedBlock.FindStringSubmatch(raw); m != nil {
		if items, ok := parseItems(strings.TrimSpace(m[1])); ok {
			return items, TierFenced
		}
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		if items, ok := parseItems(raw[start : end+1]); ok {
			return items, TierBracket
		}
	}

	return []domain.GlossaryItem{{
		Term:       domain.ParseFailureTerm,
		Definition: domain.ParseFailureDefinition,
		Context:    headRunes(strings.TrimSpace(raw), degradedContextRunes),
	}}, TierFallback
}

// parseItems accepts only a JSON array. Anything else that is still valid
// JSON (an object, null, a scalar) is rejected so the caller moves on to the
// next strategy. Element objects are trusted: absent fields stay empty.
func parseItems(candidate string) ([]domain.GlossaryItem, bool) {
	if !strings.HasPrefix(candidate, "[") {
		return nil, false
	}
	var items []domain.GlossaryItem
	if err := json.Unmarshal([]byte(candidate), &items); err != nil {
		return nil, false
	}
	if items == nil {
		items = []domain.GlossaryItem{}
	}
	return items, true
}
