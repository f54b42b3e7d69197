package textnorm

import (
	"testing"

	"github.com/mpopescu/atsmatch/internal/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize_PreservesTechTokens(t *testing.T) {
	tokens := Tokenize("C++ and C# developer with Node.js, ISO27001 experience")
	assert.Contains(t, tokens, "c++")
	assert.Contains(t, tokens, "c#")
	assert.Contains(t, tokens, "node.js")
	assert.Contains(t, tokens, "iso27001")
}

func TestTokenize_Lowercases(t *testing.T) {
	tokens := Tokenize("AWS Terraform KUBERNETES")
	assert.Equal(t, []string{"aws", "terraform", "kubernetes"}, tokens)
}

func TestTokenize_DropsSingleCharacters(t *testing.T) {
	tokens := Tokenize("a b c go")
	assert.Equal(t, []string{"go"}, tokens)
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("!!! ???"))
}

func TestIsStopword_PerLocale(t *testing.T) {
	assert.True(t, IsStopword("the", lang.EN))
	assert.False(t, IsStopword("the", lang.RO))
	assert.True(t, IsStopword("pentru", lang.RO))
	assert.False(t, IsStopword("pentru", lang.EN))
}

func TestIsStopword_KeepListWins(t *testing.T) {
	// "go" would otherwise be a plausible filler word; the keep-list
	// guarantees tech tokens are never treated as stopwords.
	assert.False(t, IsStopword("go", lang.EN))
	assert.False(t, IsStopword("api", lang.EN))
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("2024"))
	assert.False(t, IsNumeric("iso27001"))
	assert.False(t, IsNumeric("3d"))
}

func TestNGrams(t *testing.T) {
	tokens := []string{"incident", "response", "plan"}

	bigrams := NGrams(tokens, 2)
	require.Equal(t, []string{"incident response", "response plan"}, bigrams)

	trigrams := NGrams(tokens, 3)
	require.Equal(t, []string{"incident response plan"}, trigrams)
}

func TestNGrams_TooFewTokens(t *testing.T) {
	assert.Nil(t, NGrams([]string{"one"}, 2))
	assert.Nil(t, NGrams(nil, 3))
}

func TestDedupeKeepOrder(t *testing.T) {
	in := []string{"AWS", "aws", " Terraform ", "", "terraform", "Go"}
	assert.Equal(t, []string{"AWS", "Terraform", "Go"}, DedupeKeepOrder(in))
}

func TestCleanText(t *testing.T) {
	in := "Senior  SOC   Analyst\r\n\r\n\r\n\r\nRequirements:\t \n- SIEM  tools \n"
	out := CleanText(in)
	assert.Equal(t, "Senior SOC Analyst\n\nRequirements:\n- SIEM tools", out)
}

func TestCleanText_Empty(t *testing.T) {
	assert.Equal(t, "", CleanText(""))
	assert.Equal(t, "", CleanText("  \n \t "))
}
