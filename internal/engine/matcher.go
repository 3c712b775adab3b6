package engine

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/nextlevelbuilder/bilireply/internal/store"
)

// MatchKind names a rule's match strategy.
type MatchKind string

const (
	MatchExact         MatchKind = "exact"
	MatchContains      MatchKind = "contains"
	MatchStartsWith    MatchKind = "startswith"
	MatchEndsWith      MatchKind = "endswith"
	MatchRegex         MatchKind = "regex"
	MatchWordBoundary  MatchKind = "word_boundary"
	MatchFuzzy         MatchKind = "fuzzy"
	MatchFuzzyContains MatchKind = "fuzzy_contains"
)

// MatchKinds lists every valid kind, for CLI validation.
var MatchKinds = []MatchKind{
	MatchExact, MatchContains, MatchStartsWith, MatchEndsWith,
	MatchRegex, MatchWordBoundary, MatchFuzzy, MatchFuzzyContains,
}

// ValidMatchKind reports whether kind names a known strategy.
func ValidMatchKind(kind string) bool {
	for _, k := range MatchKinds {
		if string(k) == kind {
			return true
		}
	}
	return false
}

// Match returns the first rule in rules that matches text. Rules are
// consumed in the order given (the store sorts by priority). A rule that
// fails to evaluate, a bad regex typically, is skipped and the remaining
// rules still apply.
func Match(text string, rules []store.Rule) (store.Rule, bool) {
	for _, rule := range rules {
		ok, err := ruleMatches(text, rule)
		if err != nil {
			slog.Warn("skipping unevaluable rule", "rule_id", rule.ID, "keyword", rule.Keyword, "error", err)
			continue
		}
		if ok {
			return rule, true
		}
	}
	return store.Rule{}, false
}

func ruleMatches(text string, rule store.Rule) (bool, error) {
	kind := MatchKind(rule.MatchKind)
	// Keywords are compared stripped of surrounding whitespace; a keyword
	// that is only whitespace never fires.
	keyword := strings.TrimSpace(rule.Keyword)
	if keyword == "" {
		return false, nil
	}

	// Regex kinds fold case via the engine flag; everything else folds both
	// sides up front.
	switch kind {
	case MatchRegex:
		pattern := keyword
		if !rule.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false, fmt.Errorf("compile regex %q: %w", keyword, err)
		}
		return re.MatchString(text), nil

	case MatchWordBoundary:
		pattern := `\b` + regexp.QuoteMeta(keyword) + `\b`
		if !rule.CaseSensitive {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false, fmt.Errorf("compile word boundary for %q: %w", keyword, err)
		}
		return re.MatchString(text), nil
	}

	if !rule.CaseSensitive {
		text = strings.ToLower(text)
		keyword = strings.ToLower(keyword)
	}

	switch kind {
	case MatchExact:
		return text == keyword, nil
	case MatchContains:
		return strings.Contains(text, keyword), nil
	case MatchStartsWith:
		return strings.HasPrefix(text, keyword), nil
	case MatchEndsWith:
		return strings.HasSuffix(text, keyword), nil
	case MatchFuzzy:
		return fuzzyMatch(text, keyword), nil
	case MatchFuzzyContains:
		return fuzzyContains(text, keyword), nil
	default:
		return false, fmt.Errorf("unknown match kind %q", rule.MatchKind)
	}
}
