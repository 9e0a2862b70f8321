package autoformat

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/zjrosen/draftmark/internal/cachemanager"
	"github.com/zjrosen/draftmark/internal/config"
	"github.com/zjrosen/draftmark/internal/draft"
)

// PatternCache memoizes compiled delimiter patterns by source and timeout.
type PatternCache = cachemanager.CacheManager[string, *regexp2.Regexp]

var defaultPatternCache PatternCache = cachemanager.NewInMemoryCacheManager[string, *regexp2.Regexp](
	"patterns", cachemanager.NoExpiration, cachemanager.DefaultCleanupInterval,
)

// Rule is one compiled inline delimiter rule.
type Rule struct {
	Style   draft.Style
	Pattern string
	Group   int
	re      *regexp2.Regexp
}

// Match is one rule match inside a block. All offsets are rune offsets.
type Match struct {
	Style       draft.Style
	Text        string
	Inner       string
	Start       int
	Length      int
	InnerStart  int
	InnerLength int
}

// End is the offset just past the match.
func (m Match) End() int { return m.Start + m.Length }

// InnerEnd is the offset just past the inner text.
func (m Match) InnerEnd() int { return m.InnerStart + m.InnerLength }

// CompileRules compiles rule configs in ECMAScript mode so patterns may use
// backreferences. Compiled patterns are shared through cache; a nil cache
// uses the process-wide one.
func CompileRules(ctx context.Context, configs []config.RuleConfig, timeout time.Duration, cache PatternCache) ([]Rule, error) {
	if cache == nil {
		cache = defaultPatternCache
	}
	compile := cachemanager.NewReadThroughCache[string, *regexp2.Regexp, string](
		cache,
		func(_ context.Context, pattern string) (*regexp2.Regexp, error) {
			re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
			if err != nil {
				return nil, err
			}
			if timeout > 0 {
				re.MatchTimeout = timeout
			}
			return re, nil
		},
		false,
	)

	rules := make([]Rule, 0, len(configs))
	for i, rc := range configs {
		style, err := draft.ParseStyle(rc.Style)
		if err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		key := rc.Pattern + "\x00" + strconv.FormatInt(int64(timeout), 10)
		re, err := compile.Get(ctx, key, rc.Pattern, cachemanager.NoExpiration)
		if err != nil {
			return nil, fmt.Errorf("rule %d: compile %q: %w", i, rc.Pattern, err)
		}
		if !slices.Contains(re.GetGroupNumbers(), rc.Group) {
			return nil, fmt.Errorf("rule %d: pattern %q has no group %d", i, rc.Pattern, rc.Group)
		}
		rules = append(rules, Rule{Style: style, Pattern: rc.Pattern, Group: rc.Group, re: re})
	}
	return rules, nil
}

// DefaultRules compiles the built-in BOLD, ITALIC, CODE and STRIKETHROUGH
// rules without a match timeout.
func DefaultRules() []Rule {
	rules, err := CompileRules(context.Background(), config.DefaultRules(), 0, nil)
	if err != nil {
		panic(fmt.Sprintf("autoformat: default rules: %v", err))
	}
	return rules
}

// FindFirst returns the first match of the rule in text. A match timeout is
// returned as an error.
func (r Rule) FindFirst(text string) (Match, bool, error) {
	m, err := r.re.FindStringMatch(text)
	if err != nil {
		return Match{}, false, err
	}
	if m == nil {
		return Match{}, false, nil
	}
	g := m.GroupByNumber(r.Group)
	if g == nil || len(g.Captures) == 0 {
		return Match{}, false, nil
	}
	return Match{
		Style:       r.Style,
		Text:        m.String(),
		Inner:       g.String(),
		Start:       m.Index,
		Length:      m.Length,
		InnerStart:  g.Index,
		InnerLength: g.Length,
	}, true, nil
}
