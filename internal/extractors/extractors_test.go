package extractors

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPatternExtractIDs(t *testing.T) {
	e := patternExtractor{}
	ids := e.ExtractIDs(":121:abc-123-def\n:121:xyz-999-qwe", `:121:([a-z0-9-]+)|1`)
	require.Equal(t, []string{"abc-123-def", "xyz-999-qwe"}, ids)
}

func TestPatternExtractIDsMalformedConfig(t *testing.T) {
	e := patternExtractor{}
	require.Nil(t, e.ExtractIDs("anything", "no-pipe-here"))
	require.Nil(t, e.ExtractIDs("anything", "(["))
	require.Nil(t, e.ExtractIDs("anything", "(.*)|not-a-number"))
}

func TestStructuredPathExtractIDs(t *testing.T) {
	e := structuredPathExtractor{}
	content := `{"payment":{"refs":["A1","A2"],"id":"P100"}}`
	require.Equal(t, []string{"A1", "A2"}, e.ExtractIDs(content, "payment.refs"))
	require.Equal(t, []string{"P100"}, e.ExtractIDs(content, "payment.id"))
}

func TestStructuredPathExtractIDsMalformed(t *testing.T) {
	e := structuredPathExtractor{}
	require.Nil(t, e.ExtractIDs("not json", "a.b"))
	require.Nil(t, e.ExtractIDs(`{"a":1}`, "a.b.c"))
	require.Nil(t, e.ExtractIDs(`{"a":[1,2]}`, "a.notanindex"))
}

func TestDelimitedExtractIDs(t *testing.T) {
	e := delimitedExtractor{}
	content := "MSH|a|b\nOBR|c|d\nMSH|e|f"
	require.Equal(t, []string{"a", "e"}, e.ExtractIDs(content, "|MSH|1"))
}

func TestDelimitedExtractIDsAnySegment(t *testing.T) {
	e := delimitedExtractor{}
	content := "MSH|a\nOBR|b"
	require.Equal(t, []string{"a", "b"}, e.ExtractIDs(content, "||1"))
}

func TestDelimitedExtractIDsMalformed(t *testing.T) {
	e := delimitedExtractor{}
	require.Nil(t, e.ExtractIDs("a|b", "only-one-part"))
	require.Nil(t, e.ExtractIDs("a|b", "|MSH|notanumber"))
}

func TestFixedPositionExtractIDs(t *testing.T) {
	e := fixedPositionExtractor{}
	require.Equal(t, []string{"hello"}, e.ExtractIDs("  hello world", "2|5"))
}

func TestFixedPositionExtractIDsOutOfBounds(t *testing.T) {
	e := fixedPositionExtractor{}
	require.Nil(t, e.ExtractIDs("short", "10|5"))
	require.Nil(t, e.ExtractIDs("short", "-1|5"))
	require.Nil(t, e.ExtractIDs("short", "notanumber|5"))
}

func TestForUnknownType(t *testing.T) {
	_, ok := For(Type("NOT_A_TYPE"))
	require.False(t, ok)
}

func TestForKnownTypes(t *testing.T) {
	for _, tt := range []Type{Pattern, StructuredPath, Delimited, FixedPosition} {
		_, ok := For(tt)
		require.True(t, ok, "expected %s to be registered", tt)
	}
}
