package usecase_test

import (
	"fmt"
	"time"

	"github.com/skillgenome/skillgenome/internal/domain"
)

// stubExtractor returns fixed text or an error.
type stubExtractor struct {
	text string
	err  error
}

func (s stubExtractor) Extract(_ domain.Context, _ string, _ []byte) (string, error) {
	return s.text, s.err
}

// stubRef is a tiny in-memory ReferenceProvider.
type stubRef struct {
	ontology []string
	roles    map[string]domain.RoleRequirement
	courses  map[string][]domain.CourseCatalogEntry
}

func newStubRef() *stubRef {
	return &stubRef{
		ontology: []string{"python", "sql", "docker", "git", "communication"},
		roles: map[string]domain.RoleRequirement{
			"general": {RoleName: "general", Sector: "General", Phases: map[string][]string{
				"foundation": {"git"},
				"core":       {"sql"},
			}},
			"data analyst": {RoleName: "data analyst", Sector: "Technology", Phases: map[string][]string{
				"foundation": {"sql", "python"},
				"core":       {"docker"},
				"projects":   {"dashboard"},
			}},
		},
		courses: map[string][]domain.CourseCatalogEntry{
			"sql": {{Skill: "sql", Platform: "Mode", Title: "SQL Tutorial", URL: "https://mode.com/sql-tutorial/"}},
		},
	}
}

func (r *stubRef) Ontology() []string { return r.ontology }
func (r *stubRef) Role(name string) (domain.RoleRequirement, error) {
	if req, ok := r.roles[name]; ok {
		return req, nil
	}
	return domain.RoleRequirement{}, domain.ErrUnknownRole
}
func (r *stubRef) Roles() []domain.RoleRequirement {
	out := make([]domain.RoleRequirement, 0, len(r.roles))
	for _, req := range r.roles {
		out = append(out, req)
	}
	return out
}
func (r *stubRef) DefaultRole() domain.RoleRequirement { return r.roles["general"] }
func (r *stubRef) CoursesFor(skill string) []domain.CourseCatalogEntry {
	return r.courses[skill]
}

// memProfiles is an in-memory ProfileRepository.
type memProfiles struct {
	rows    map[string]domain.Profile
	touched []string
	getErr  error
}

func newMemProfiles(ids ...string) *memProfiles {
	m := &memProfiles{rows: map[string]domain.Profile{}}
	for _, id := range ids {
		m.rows[id] = domain.Profile{ID: id, Email: id + "@example.com", Name: id, CreatedAt: time.Now().UTC()}
	}
	return m
}

func (m *memProfiles) Create(_ domain.Context, p domain.Profile) (string, error) {
	for _, ex := range m.rows {
		if ex.Email == p.Email {
			return "", fmt.Errorf("op=profile.create: %w", domain.ErrConflict)
		}
	}
	id := p.ID
	if id == "" {
		id = fmt.Sprintf("p-%d", len(m.rows)+1)
	}
	p.ID = id
	m.rows[id] = p
	return id, nil
}

func (m *memProfiles) Get(_ domain.Context, id string) (domain.Profile, error) {
	if m.getErr != nil {
		return domain.Profile{}, m.getErr
	}
	p, ok := m.rows[id]
	if !ok {
		return domain.Profile{}, fmt.Errorf("op=profile.get: %w", domain.ErrNotFound)
	}
	return p, nil
}

func (m *memProfiles) Delete(_ domain.Context, id string) error {
	if _, ok := m.rows[id]; !ok {
		return fmt.Errorf("op=profile.delete: %w", domain.ErrNotFound)
	}
	delete(m.rows, id)
	return nil
}

func (m *memProfiles) Touch(_ domain.Context, id string) error {
	m.touched = append(m.touched, id)
	return nil
}

func (m *memProfiles) Count(_ domain.Context) (int64, error) { return int64(len(m.rows)), nil }

// memSkills is an in-memory SkillRepository enforcing the duplicate rule.
type memSkills struct {
	rows      []domain.UserSkill
	insertErr error
}

func (m *memSkills) Insert(_ domain.Context, s domain.UserSkill) (string, error) {
	if m.insertErr != nil {
		return "", m.insertErr
	}
	for _, ex := range m.rows {
		if ex.UserID == s.UserID && ex.SkillName == s.SkillName && ex.Source == s.Source {
			return "", fmt.Errorf("op=skill.insert: %w", domain.ErrConflict)
		}
	}
	if s.ID == "" {
		s.ID = fmt.Sprintf("s-%d", len(m.rows)+1)
	}
	m.rows = append(m.rows, s)
	return s.ID, nil
}

func (m *memSkills) ListByUser(_ domain.Context, userID string) ([]domain.UserSkill, error) {
	var out []domain.UserSkill
	for _, s := range m.rows {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memSkills) Count(_ domain.Context) (int64, error) { return int64(len(m.rows)), nil }

// memCourses is an in-memory CourseRepository enforcing the duplicate rule.
type memCourses struct {
	rows []domain.UserCourse
}

func (m *memCourses) Insert(_ domain.Context, c domain.UserCourse) (string, error) {
	for _, ex := range m.rows {
		if ex.UserID == c.UserID && ex.CourseName == c.CourseName && ex.Platform == c.Platform {
			return "", fmt.Errorf("op=course.insert: %w", domain.ErrConflict)
		}
	}
	if c.ID == "" {
		c.ID = fmt.Sprintf("c-%d", len(m.rows)+1)
	}
	m.rows = append(m.rows, c)
	return c.ID, nil
}

func (m *memCourses) ListByUser(_ domain.Context, userID string) ([]domain.UserCourse, error) {
	var out []domain.UserCourse
	for _, c := range m.rows {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

// stubImporter serves fixed rows.
type stubImporter struct {
	skills  []domain.UserSkill
	courses []domain.UserCourse
	err     error
}

func (s stubImporter) ImportSkills(_ domain.Context, _ string) ([]domain.UserSkill, error) {
	return s.skills, s.err
}

func (s stubImporter) ImportCourses(_ domain.Context, _ string) ([]domain.UserCourse, error) {
	return s.courses, s.err
}
