// Package exclusion implements a rule-driven exclusion engine over a
// runtime-mutable rule table and global ID set, protected by a
// reader/writer lock. Compiled matchers are cached per rule and rebuilt
// on mutation.
package exclusion

import (
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"messagebridge/internal/extractors"
	"messagebridge/internal/metrics"
)

// Rule is the exclusion rule model.
type Rule struct {
	RuleID              string
	Name                string
	MessageType         string
	ExtractorType       extractors.Type
	ExtractorConfig     string
	ExcludedIdentifiers string
	Active              bool
	Priority            int
}

type compiledRule struct {
	rule     Rule
	matchers []matcher
}

// matcher is one parsed entry from a rule's comma-separated identifier
// list: either an exact string or a glob pattern where '*' means ".*" and
// every other character is literal.
type matcher struct {
	exact string
	glob  *globPattern
}

func (m matcher) match(id string) bool {
	if m.glob != nil {
		return m.glob.match(id)
	}
	return m.exact == id
}

func compileMatchers(csv string) []matcher {
	var out []matcher
	for _, entry := range strings.Split(csv, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "*") {
			out = append(out, matcher{glob: newGlobPattern(entry)})
		} else {
			out = append(out, matcher{exact: entry})
		}
	}
	return out
}

// Engine holds the rule table and global ID set behind a single
// reader/writer lock: reads (shouldExclude, the hot path) take the read
// lock; mutations take the write lock.
type Engine struct {
	mu        sync.RWMutex
	rules     map[string]*compiledRule
	ordered   []*compiledRule // re-sorted on every mutation; priority desc, ruleId asc
	globalIDs map[string]struct{}
}

// New builds an empty Engine.
func New() *Engine {
	return &Engine{
		rules:     make(map[string]*compiledRule),
		globalIDs: make(map[string]struct{}),
	}
}

// resort rebuilds the ordered slice under the caller's write lock. Ties on
// priority are broken by ruleId ascending for a stable, deterministic order.
func (e *Engine) resort() {
	e.ordered = e.ordered[:0]
	for _, cr := range e.rules {
		e.ordered = append(e.ordered, cr)
	}
	sort.Slice(e.ordered, func(i, j int) bool {
		a, b := e.ordered[i].rule, e.ordered[j].rule
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		return a.RuleID < b.RuleID
	})
}

// AddRule inserts rule, assigning a fresh RuleID if empty.
func (e *Engine) AddRule(r Rule) Rule {
	if r.RuleID == "" {
		r.RuleID = uuid.NewString()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules[r.RuleID] = &compiledRule{rule: r, matchers: compileMatchers(r.ExcludedIdentifiers)}
	e.resort()
	return r
}

// UpdateRule replaces the rule at ruleID's matchers and fields, recompiling
// its matcher set. Reports false if ruleID does not exist.
func (e *Engine) UpdateRule(ruleID string, r Rule) bool {
	r.RuleID = ruleID
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.rules[ruleID]; !ok {
		return false
	}
	e.rules[ruleID] = &compiledRule{rule: r, matchers: compileMatchers(r.ExcludedIdentifiers)}
	e.resort()
	return true
}

// RemoveRule deletes ruleID, reporting false if it did not exist.
func (e *Engine) RemoveRule(ruleID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.rules[ruleID]; !ok {
		return false
	}
	delete(e.rules, ruleID)
	e.resort()
	return true
}

// ListRules returns a snapshot of all rules, in the engine's documented
// (priority desc, ruleId asc) order.
func (e *Engine) ListRules() []Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]Rule, 0, len(e.ordered))
	for _, cr := range e.ordered {
		out = append(out, cr.rule)
	}
	return out
}

// GetRule returns the rule for ruleID, if present.
func (e *Engine) GetRule(ruleID string) (Rule, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	cr, ok := e.rules[ruleID]
	if !ok {
		return Rule{}, false
	}
	return cr.rule, true
}

// ClearAll removes every rule.
func (e *Engine) ClearAll() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.rules = make(map[string]*compiledRule)
	e.ordered = nil
}

// AddGlobalID adds id to the global excluded-ID set.
func (e *Engine) AddGlobalID(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.globalIDs[id] = struct{}{}
}

// RemoveGlobalID removes id from the global excluded-ID set.
func (e *Engine) RemoveGlobalID(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.globalIDs, id)
}

// ListGlobalIDs returns a snapshot of the global excluded-ID set.
func (e *Engine) ListGlobalIDs() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, 0, len(e.globalIDs))
	for id := range e.globalIDs {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// TestResult is the diagnostic output of TestAgainst / the hot-path
// ShouldExclude check.
type TestResult struct {
	Excluded      bool
	MatchedRuleID string
	MatchedID     string
}

// ShouldExclude reports whether content (with an optional messageType
// hint) is excluded, scanning rules in descending priority order and
// returning on the first match.
func (e *Engine) ShouldExclude(content, messageType string) bool {
	return e.evaluate(content, messageType).Excluded
}

// TestAgainst is ShouldExclude's diagnostic twin, surfacing which rule and
// identifier matched. Backs /api/exclusions/test.
func (e *Engine) TestAgainst(content, messageType string) TestResult {
	return e.evaluate(content, messageType)
}

func (e *Engine) evaluate(content, messageType string) TestResult {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, cr := range e.ordered {
		r := cr.rule
		if !r.Active {
			continue
		}
		if r.MessageType != "" && messageType != "" && r.MessageType != messageType {
			continue
		}
		extractor, ok := extractors.For(r.ExtractorType)
		if !ok || !extractor.Supports(messageType) {
			continue
		}
		ids := extractor.ExtractIDs(content, r.ExtractorConfig)
		for _, id := range ids {
			if matchesAny(cr.matchers, id) {
				metrics.ExclusionHits.Inc()
				return TestResult{Excluded: true, MatchedRuleID: r.RuleID, MatchedID: id}
			}
			if _, global := e.globalIDs[id]; global {
				metrics.ExclusionHits.Inc()
				return TestResult{Excluded: true, MatchedRuleID: r.RuleID, MatchedID: id}
			}
		}
	}
	return TestResult{Excluded: false}
}

func matchesAny(matchers []matcher, id string) bool {
	for _, m := range matchers {
		if m.match(id) {
			return true
		}
	}
	return false
}

// Statistics is the summary returned by the engine's statistics operation.
type Statistics struct {
	TotalRules          int
	ActiveRules         int
	ExcludedIDsCount    int
	ExtractorsAvailable []string
}

// Statistics reports the engine's current size.
func (e *Engine) Statistics() Statistics {
	e.mu.RLock()
	defer e.mu.RUnlock()
	active := 0
	for _, cr := range e.rules {
		if cr.rule.Active {
			active++
		}
	}
	avail := make([]string, 0, len(extractors.Registry))
	for t := range extractors.Registry {
		avail = append(avail, string(t))
	}
	sort.Strings(avail)
	return Statistics{
		TotalRules:          len(e.rules),
		ActiveRules:         active,
		ExcludedIDsCount:    len(e.globalIDs),
		ExtractorsAvailable: avail,
	}
}
