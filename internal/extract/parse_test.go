package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirectJSON(t *testing.T) {
	out, err := parseModelJSON(`{"ingredients":[{"name":"Bleach","risk":"avoid"}],"summary":"ok"}`)
	require.NoError(t, err)
	require.Len(t, out.Ingredients, 1)
	assert.Equal(t, "Bleach", out.Ingredients[0].Name)
	assert.Equal(t, "ok", out.Summary)
}

func TestParseFencedJSON(t *testing.T) {
	text := "```json\n{\"ingredients\":[],\"summary\":\"fenced\"}\n```"
	out, err := parseModelJSON(text)
	require.NoError(t, err)
	assert.Equal(t, "fenced", out.Summary)
}

func TestParseFencedNoLanguageTag(t *testing.T) {
	text := "```\n{\"summary\":\"plain fence\"}\n```"
	out, err := parseModelJSON(text)
	require.NoError(t, err)
	assert.Equal(t, "plain fence", out.Summary)
}

func TestParseBraceSliceRecovery(t *testing.T) {
	text := `Sure! Here is the result you asked for: {"ingredients":[],"summary":"recovered"} Hope that helps.`
	out, err := parseModelJSON(text)
	require.NoError(t, err)
	assert.Equal(t, "recovered", out.Summary)
}

func TestParseMalformedFailsClassified(t *testing.T) {
	_, err := parseModelJSON("I could not produce JSON, sorry")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindMalformed))
}

func TestParseEmptyFailsClassified(t *testing.T) {
	_, err := parseModelJSON("")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindMalformed))
}
