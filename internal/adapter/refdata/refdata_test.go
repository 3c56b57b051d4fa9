package refdata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillgenome/skillgenome/internal/domain"
)

func TestNewDefault(t *testing.T) {
	t.Parallel()
	p, err := NewDefault()
	require.NoError(t, err)

	ont := p.Ontology()
	require.NotEmpty(t, ont)
	assert.Contains(t, ont, "python")
	assert.Contains(t, ont, "sql")
	// entries are lowercased and deduplicated
	seen := map[string]int{}
	for _, s := range ont {
		seen[s]++
	}
	for s, n := range seen {
		assert.Equal(t, 1, n, "duplicate ontology entry %q", s)
	}
}

func TestNewDefault_Roles(t *testing.T) {
	t.Parallel()
	p, err := NewDefault()
	require.NoError(t, err)

	req, err := p.Role("Software Engineer")
	require.NoError(t, err)
	assert.Equal(t, "software engineer", req.RoleName)
	assert.Equal(t, "Technology", req.Sector)
	assert.Contains(t, req.Phases["foundation"], "git")
	assert.Contains(t, req.Phases["core"], "sql")

	_, err = p.Role("quantum gardener")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnknownRole))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestNewDefault_RolesSorted(t *testing.T) {
	t.Parallel()
	p, err := NewDefault()
	require.NoError(t, err)

	roles := p.Roles()
	require.NotEmpty(t, roles)
	for i := 1; i < len(roles); i++ {
		assert.LessOrEqual(t, roles[i-1].RoleName, roles[i].RoleName)
	}
}

func TestDefaultRole(t *testing.T) {
	t.Parallel()
	p, err := NewDefault()
	require.NoError(t, err)

	req := p.DefaultRole()
	assert.Equal(t, "general", req.RoleName)
	assert.NotEmpty(t, req.Phases["foundation"])
}

func TestCoursesFor(t *testing.T) {
	t.Parallel()
	p, err := NewDefault()
	require.NoError(t, err)

	got := p.CoursesFor("  Python ")
	require.NotEmpty(t, got)
	assert.Equal(t, "Technology", got[0].Sector)
	assert.NotEmpty(t, got[0].Platform)
	assert.NotEmpty(t, got[0].URL)

	hr := p.CoursesFor("recruitment")
	require.NotEmpty(t, hr)
	assert.Equal(t, "HR", hr[0].Sector)

	assert.Nil(t, p.CoursesFor("underwater basket weaving"))
}

func TestNewFromFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "ref.yaml")
	data := []byte(`
ontology: [go, sql, go]
roles:
  general:
    foundation: [go]
    core: [sql]
courses:
  go:
    - {platform: Tour, title: A Tour of Go, url: "https://go.dev/tour"}
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	p, err := NewFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "sql"}, p.Ontology())
	assert.Equal(t, "general", p.DefaultRole().RoleName)
	assert.Len(t, p.CoursesFor("GO"), 1)
}

func TestNewFromFile_EmptyPathUsesDefaults(t *testing.T) {
	t.Parallel()
	p, err := NewFromFile("")
	require.NoError(t, err)
	assert.NotEmpty(t, p.Ontology())
}

func TestNewFromFile_Invalid(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ontology: []\nroles: {}\n"), 0o600))

	_, err := NewFromFile(path)
	require.Error(t, err)
}
