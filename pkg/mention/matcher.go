package mention

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"

	"ignetwork/pkg/alias"
)

// DefaultMatchTimeout bounds a single pattern evaluation
const DefaultMatchTimeout = 2 * time.Second

type pattern struct {
	re        *regexp2.Regexp
	canonical string
}

// Matcher finds mentions of tracked handles in free text. It is compiled
// once per run and never modified afterwards, so it is safe to share.
type Matcher struct {
	patterns []pattern
}

// NewMatcher compiles one case-insensitive pattern per tracked handle
// matching "@key" or the bare key between Unicode word boundaries, for the
// handle and each of its display names.
func NewMatcher(table *alias.Table, timeout time.Duration) (*Matcher, error) {
	if timeout <= 0 {
		timeout = DefaultMatchTimeout
	}

	byHandle := make(map[string][]string)
	var handles []string
	for _, term := range table.SearchTerms() {
		if _, seen := byHandle[term.Canonical]; !seen {
			handles = append(handles, term.Canonical)
		}
		byHandle[term.Canonical] = append(byHandle[term.Canonical], term.Key)
	}

	m := &Matcher{patterns: make([]pattern, 0, len(handles))}
	for _, handle := range handles {
		expr := buildExpression(byHandle[handle])
		re, err := regexp2.Compile(expr, regexp2.IgnoreCase)
		if err != nil {
			return nil, fmt.Errorf("failed to compile pattern for %s: %w", handle, err)
		}
		re.MatchTimeout = timeout
		m.patterns = append(m.patterns, pattern{re: re, canonical: handle})
	}
	return m, nil
}

func buildExpression(keys []string) string {
	escaped := make([]string, len(keys))
	for i, key := range keys {
		escaped[i] = regexp2.Escape(norm.NFC.String(key))
	}
	alt := strings.Join(escaped, "|")
	return fmt.Sprintf(`@(?:%s)\b|\b(?:%s)\b`, alt, alt)
}

// Len returns the number of compiled handle patterns
func (m *Matcher) Len() int {
	return len(m.patterns)
}

// Find returns the sorted distinct handles mentioned in text, leaving out
// exclude. The text is NFC-normalised first.
func (m *Matcher) Find(text, exclude string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	text = norm.NFC.String(text)

	var found []string
	for _, p := range m.patterns {
		if p.canonical == exclude {
			continue
		}
		ok, err := p.re.MatchString(text)
		if err != nil {
			return nil, fmt.Errorf("matching %s: %w", p.canonical, err)
		}
		if ok {
			found = append(found, p.canonical)
		}
	}
	sort.Strings(found)
	return found, nil
}
