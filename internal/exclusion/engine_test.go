package exclusion

import (
	"testing"

	"github.com/stretchr/testify/require"

	"messagebridge/internal/extractors"
)

func TestGlobPatternMatching(t *testing.T) {
	g := newGlobPattern("ACC*")
	require.True(t, g.match("ACC123"))
	require.True(t, g.match("ACC"))
	require.False(t, g.match("XACC123"))

	exact := newGlobPattern("EXACT")
	require.False(t, exact.match("exact"))
	exactViaCompile := compileMatchers("EXACT")
	require.True(t, matchesAny(exactViaCompile, "EXACT"))
}

func TestEngineShouldExcludeByExactMatch(t *testing.T) {
	e := New()
	e.AddRule(Rule{
		Name:                "block-acct",
		ExtractorType:       extractors.Pattern,
		ExtractorConfig:     `ACCT:(\w+)|1`,
		ExcludedIdentifiers: "12345",
		Active:              true,
		Priority:            10,
	})

	require.True(t, e.ShouldExclude("ACCT:12345", ""))
	require.False(t, e.ShouldExclude("ACCT:99999", ""))
}

func TestEngineShouldExcludeByGlobMatch(t *testing.T) {
	e := New()
	e.AddRule(Rule{
		ExtractorType:       extractors.Pattern,
		ExtractorConfig:     `ACCT:(\w+)|1`,
		ExcludedIdentifiers: "BLOCK*",
		Active:              true,
		Priority:            5,
	})
	require.True(t, e.ShouldExclude("ACCT:BLOCKED99", ""))
	require.False(t, e.ShouldExclude("ACCT:ALLOWED99", ""))
}

func TestEngineSkipsInactiveRules(t *testing.T) {
	e := New()
	e.AddRule(Rule{
		ExtractorType:       extractors.Pattern,
		ExtractorConfig:     `ACCT:(\w+)|1`,
		ExcludedIdentifiers: "12345",
		Active:              false,
		Priority:            10,
	})
	require.False(t, e.ShouldExclude("ACCT:12345", ""))
}

func TestEngineGlobalIDExclusion(t *testing.T) {
	e := New()
	e.AddRule(Rule{
		ExtractorType:   extractors.Pattern,
		ExtractorConfig: `ACCT:(\w+)|1`,
		Active:          true,
	})
	e.AddGlobalID("99999")
	require.True(t, e.ShouldExclude("ACCT:99999", ""))

	e.RemoveGlobalID("99999")
	require.False(t, e.ShouldExclude("ACCT:99999", ""))
}

func TestEngineListRulesOrderedByPriorityDescThenRuleIDAsc(t *testing.T) {
	e := New()
	e.AddRule(Rule{RuleID: "b-rule", Priority: 5})
	e.AddRule(Rule{RuleID: "a-rule", Priority: 5})
	e.AddRule(Rule{RuleID: "z-rule", Priority: 10})

	rules := e.ListRules()
	require.Len(t, rules, 3)
	require.Equal(t, "z-rule", rules[0].RuleID)
	require.Equal(t, "a-rule", rules[1].RuleID)
	require.Equal(t, "b-rule", rules[2].RuleID)
}

func TestEngineRuleCRUD(t *testing.T) {
	e := New()
	created := e.AddRule(Rule{Name: "original", Priority: 1})
	require.NotEmpty(t, created.RuleID)

	got, ok := e.GetRule(created.RuleID)
	require.True(t, ok)
	require.Equal(t, "original", got.Name)

	require.True(t, e.UpdateRule(created.RuleID, Rule{Name: "updated", Priority: 2}))
	got, _ = e.GetRule(created.RuleID)
	require.Equal(t, "updated", got.Name)

	require.True(t, e.RemoveRule(created.RuleID))
	_, ok = e.GetRule(created.RuleID)
	require.False(t, ok)

	require.False(t, e.UpdateRule("missing", Rule{}))
	require.False(t, e.RemoveRule("missing"))
}

func TestEngineStatistics(t *testing.T) {
	e := New()
	e.AddRule(Rule{Active: true})
	e.AddRule(Rule{Active: false})
	e.AddGlobalID("abc")

	stats := e.Statistics()
	require.Equal(t, 2, stats.TotalRules)
	require.Equal(t, 1, stats.ActiveRules)
	require.Equal(t, 1, stats.ExcludedIDsCount)
	require.Contains(t, stats.ExtractorsAvailable, string(extractors.Pattern))
}
