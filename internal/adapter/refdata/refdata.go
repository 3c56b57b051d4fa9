// Package refdata loads the static reference tables used by the analysis
// pipeline: the skill ontology, role requirement sets and the course
// catalog. Data is loaded once at construction, from the embedded defaults
// or an operator-provided YAML file, and is read-only afterwards, so a
// single Provider is safe for concurrent use.
package refdata

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/skillgenome/skillgenome/internal/domain"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// defaultRoleName is the fallback requirement set used when a target role
// has no entry of its own.
const defaultRoleName = "general"

type fileFormat struct {
	Ontology []string                `yaml:"ontology"`
	Roles    map[string]roleYAML     `yaml:"roles"`
	Courses  map[string][]courseYAML `yaml:"courses"`
}

type roleYAML struct {
	Sector     string   `yaml:"sector"`
	Foundation []string `yaml:"foundation"`
	Core       []string `yaml:"core"`
	Advanced   []string `yaml:"advanced"`
	Projects   []string `yaml:"projects"`
}

type courseYAML struct {
	Platform string `yaml:"platform"`
	Title    string `yaml:"title"`
	URL      string `yaml:"url"`
	Sector   string `yaml:"sector"`
}

// Provider implements domain.ReferenceProvider over parsed YAML data.
type Provider struct {
	ontology  []string
	roles     map[string]domain.RoleRequirement
	roleNames []string
	courses   map[string][]domain.CourseCatalogEntry
}

// NewDefault builds a Provider from the embedded reference data.
func NewDefault() (*Provider, error) {
	return parse(defaultsYAML)
}

// NewFromFile builds a Provider from a YAML file at path, falling back to
// the embedded defaults when path is empty.
func NewFromFile(path string) (*Provider, error) {
	if path == "" {
		return NewDefault()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("op=refdata.load: %w", err)
	}
	return parse(b)
}

func parse(b []byte) (*Provider, error) {
	var f fileFormat
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("op=refdata.parse: %w", err)
	}
	if len(f.Ontology) == 0 {
		return nil, fmt.Errorf("op=refdata.parse: %w: empty ontology", domain.ErrInvalidArgument)
	}
	p := &Provider{
		roles:   make(map[string]domain.RoleRequirement, len(f.Roles)),
		courses: make(map[string][]domain.CourseCatalogEntry),
	}
	seen := make(map[string]bool, len(f.Ontology))
	for _, s := range f.Ontology {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		p.ontology = append(p.ontology, s)
	}
	for name, r := range f.Roles {
		name = strings.ToLower(strings.TrimSpace(name))
		req := domain.RoleRequirement{
			RoleName: name,
			Sector:   r.Sector,
			Phases:   map[string][]string{},
		}
		if r.Sector == "" {
			req.Sector = "General"
		}
		for phase, skills := range map[string][]string{
			"foundation": r.Foundation,
			"core":       r.Core,
			"advanced":   r.Advanced,
			"projects":   r.Projects,
		} {
			if len(skills) == 0 {
				continue
			}
			lowered := make([]string, 0, len(skills))
			for _, s := range skills {
				lowered = append(lowered, strings.ToLower(strings.TrimSpace(s)))
			}
			req.Phases[phase] = lowered
		}
		p.roles[name] = req
		p.roleNames = append(p.roleNames, name)
	}
	sort.Strings(p.roleNames)
	if _, ok := p.roles[defaultRoleName]; !ok {
		return nil, fmt.Errorf("op=refdata.parse: %w: missing %q role", domain.ErrInvalidArgument, defaultRoleName)
	}
	for skill, courses := range f.Courses {
		skill = strings.ToLower(strings.TrimSpace(skill))
		for _, c := range courses {
			sector := c.Sector
			if sector == "" {
				sector = "Technology"
			}
			p.courses[skill] = append(p.courses[skill], domain.CourseCatalogEntry{
				Skill:    skill,
				Platform: c.Platform,
				Title:    c.Title,
				URL:      c.URL,
				Sector:   sector,
			})
		}
	}
	return p, nil
}

// Ontology returns the skill vocabulary in file order.
func (p *Provider) Ontology() []string { return p.ontology }

// Role returns the requirement set for a role name (case-insensitive) or
// ErrUnknownRole.
func (p *Provider) Role(name string) (domain.RoleRequirement, error) {
	req, ok := p.roles[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return domain.RoleRequirement{}, domain.ErrUnknownRole
	}
	return req, nil
}

// Roles lists every known role in name order.
func (p *Provider) Roles() []domain.RoleRequirement {
	out := make([]domain.RoleRequirement, 0, len(p.roleNames))
	for _, n := range p.roleNames {
		out = append(out, p.roles[n])
	}
	return out
}

// DefaultRole returns the generic fallback requirement set.
func (p *Provider) DefaultRole() domain.RoleRequirement {
	return p.roles[defaultRoleName]
}

// CoursesFor returns catalog entries for a skill; unknown skills yield nil.
func (p *Provider) CoursesFor(skill string) []domain.CourseCatalogEntry {
	return p.courses[strings.ToLower(strings.TrimSpace(skill))]
}
