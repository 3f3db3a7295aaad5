package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_WellFormed(t *testing.T) {
	raw := "---\n" +
		"title: Hello Go\n" +
		"date: 2024-03-01\n" +
		"author: Sam\n" +
		"tags: go,  web , ,testing\n" +
		"---\n" +
		"# Heading\n\nBody text.\n"

	meta, body, err := Parse(raw)
	require.NoError(t, err)

	assert.Len(t, meta.Fields, 4)
	assert.Equal(t, "Hello Go", meta.Fields["title"])
	assert.Equal(t, "2024-03-01", meta.Fields["date"], "dates must stay opaque strings")
	assert.Equal(t, "Sam", meta.Fields["author"])
	assert.Equal(t, []string{"go", "web", "testing"}, meta.Tags)
	assert.Equal(t, "# Heading\n\nBody text.\n", body)
}

func TestParse_NoTagsKeyYieldsEmptySlice(t *testing.T) {
	meta, _, err := Parse("---\ntitle: x\n---\nbody")
	require.NoError(t, err)
	require.NotNil(t, meta.Tags)
	assert.Empty(t, meta.Tags)
}

func TestParse_ValueKeepsLaterSeparators(t *testing.T) {
	meta, _, err := Parse("---\ntitle: Go: the good parts\n---\n")
	require.NoError(t, err)
	assert.Equal(t, "Go: the good parts", meta.Fields["title"])
}

func TestParse_PreambleDiscarded(t *testing.T) {
	meta, body, err := Parse("stray preamble\n---\ntitle: x\n---\nbody")
	require.NoError(t, err)
	assert.Equal(t, "x", meta.Fields["title"])
	assert.Equal(t, "body", body)
}

func TestParse_BodyMayContainDelimiter(t *testing.T) {
	raw := "---\ntitle: Rules\n---\nabove\n\n---\n\nbelow\n"
	meta, body, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Rules", meta.Fields["title"])
	assert.Equal(t, "above\n\n---\n\nbelow\n", body)
}

func TestParse_CRLF(t *testing.T) {
	meta, body, err := Parse("---\r\ntitle: Windows\r\ntags: a, b\r\n---\r\nbody\r\n")
	require.NoError(t, err)
	assert.Equal(t, "Windows", meta.Fields["title"])
	assert.Equal(t, []string{"a", "b"}, meta.Tags)
	assert.Equal(t, "body\r\n", body)
}

func TestParse_BlankLinesSkipped(t *testing.T) {
	meta, _, err := Parse("---\n\ntitle: x\n   \nauthor: y\n---\n")
	require.NoError(t, err)
	assert.Len(t, meta.Fields, 2)
}

func TestParse_DuplicateKeyLastWins(t *testing.T) {
	meta, _, err := Parse("---\ntitle: first\ntitle: second\n---\n")
	require.NoError(t, err)
	assert.Equal(t, "second", meta.Fields["title"])
}

func TestParse_MissingClosingDelimiter(t *testing.T) {
	_, _, err := Parse("---\ntitle: x\nno closing here\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Contains(t, pe.Reason, "closing")
}

func TestParse_OnlyOneDelimiter(t *testing.T) {
	_, _, err := Parse("---\ntitle: x\n")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestParse_MissingOpeningDelimiter(t *testing.T) {
	_, _, err := Parse("title: x\nbody without frontmatter\n")
	require.ErrorIs(t, err, ErrMalformed)

	_, _, err = Parse("")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestParse_LineWithoutSeparatorRejected(t *testing.T) {
	cases := map[string]string{
		"no separator": "---\ntitle: ok\njust words\n---\n",
		"colon only":   "---\ndraft:\n---\n",
		"empty key":    "---\n: value\n---\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, _, err := Parse(raw)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Greater(t, pe.Line, 1)
		})
	}
}

func TestParse_ErrorReportsLineNumber(t *testing.T) {
	_, _, err := Parse("---\ntitle: ok\nbroken\n---\n")
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 3, pe.Line)
	assert.Contains(t, pe.Error(), "line 3")
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{}, SplitTags(""))
	assert.Equal(t, []string{}, SplitTags(" , ,"))
	assert.Equal(t, []string{"a", "b c"}, SplitTags(" a ,b c "))
}
