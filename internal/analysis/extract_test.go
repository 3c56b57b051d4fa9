package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillgenome/skillgenome/pkg/textx"
)

func TestExtract_FindsOntologySkills(t *testing.T) {
	t.Parallel()
	raw := "Built REST services in Python and Go. Python data pipelines with SQL."
	ontology := []string{"python", "sql", "go", "rust"}
	got := Extract(textx.Normalize(raw), raw, ontology)

	require.Len(t, got, 3)
	assert.Equal(t, "python", got[0].Name)
	assert.Equal(t, "sql", got[1].Name)
	assert.Equal(t, "go", got[2].Name)
	assert.Equal(t, 2, got[0].RawSignal)
	assert.Equal(t, 1, got[1].RawSignal)
}

func TestExtract_OmitsAbsentSkills(t *testing.T) {
	t.Parallel()
	raw := "Plain marketing copy with no technology terms."
	got := Extract(textx.Normalize(raw), raw, []string{"python", "docker"})
	assert.Empty(t, got)
}

func TestExtract_NoDuplicateCandidates(t *testing.T) {
	t.Parallel()
	raw := "docker docker docker docker docker"
	got := Extract(textx.Normalize(raw), raw, []string{"docker"})
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].RawSignal)
}

func TestExtract_EvidenceCappedAndOrdered(t *testing.T) {
	t.Parallel()
	raw := "python first. python second. python third. python fourth."
	got := Extract(textx.Normalize(raw), raw, []string{"python"})
	require.Len(t, got, 1)
	require.Len(t, got[0].Evidence, maxEvidence)
	assert.Contains(t, got[0].Evidence[0], "first")
	assert.Contains(t, got[0].Evidence[1], "second")
	assert.Contains(t, got[0].Evidence[2], "third")
}

func TestExtract_TokenBoundaries(t *testing.T) {
	t.Parallel()
	// "r" and "c" must not match inside other words
	raw := "Rewrote the car parser in record time."
	got := Extract(textx.Normalize(raw), raw, []string{"r", "c"})
	assert.Empty(t, got)

	raw = "Statistical models in R and systems code in C."
	got = Extract(textx.Normalize(raw), raw, []string{"r", "c"})
	require.Len(t, got, 2)
}

func TestExtract_MultiWordSkills(t *testing.T) {
	t.Parallel()
	raw := "Shipped a machine learning pipeline on rest api backends."
	got := Extract(textx.Normalize(raw), raw, []string{"machine learning", "rest api"})
	require.Len(t, got, 2)
	assert.Equal(t, "machine learning", got[0].Name)
}

func TestExtract_Deterministic(t *testing.T) {
	t.Parallel()
	raw := "Python, SQL, Docker, Kubernetes and more Python."
	ontology := []string{"python", "sql", "docker", "kubernetes"}
	first := Extract(textx.Normalize(raw), raw, ontology)
	second := Extract(textx.Normalize(raw), raw, ontology)
	assert.Equal(t, first, second)
}

func TestExtract_EmptyInputs(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Extract("", "raw", []string{"python"}))
	assert.Nil(t, Extract("text", "text", nil))
}

func TestCollectEvidence_SnippetBounds(t *testing.T) {
	t.Parallel()
	raw := "python"
	snippets := collectEvidence(raw, strings.ToLower(raw), "python")
	require.Len(t, snippets, 1)
	assert.Equal(t, "python", snippets[0])
}
