package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrUpstreamTimeout   = errors.New("upstream timeout")
	ErrInternal          = errors.New("internal error")
)

// ErrUnknownRole wraps ErrNotFound so handlers map it to 404 while callers
// that want a fallback roadmap can still detect the specific case.
var ErrUnknownRole = fmt.Errorf("unknown role: %w", ErrNotFound)

// Skill sources
const (
	SourceResume   = "resume"
	SourceLinkedIn = "linkedin"
	SourceGitHub   = "github"
	SourceManual   = "manual"
)

// CanonicalPhases is the phase order for role requirements and roadmaps.
var CanonicalPhases = []string{"foundation", "core", "advanced", "projects"}

// CorePhases are the phases counted by the fit computation.
var CorePhases = []string{"foundation", "core"}

// SkillCandidate is a skill mention found in a document before scoring.
// Evidence snippets are ordered by position of first occurrence and capped
// by the extractor; RawSignal is the occurrence count in the document.
type SkillCandidate struct {
	Name      string
	Evidence  []string
	RawSignal int
}

// ScoredSkill is a skill claim with a confidence in [0,1].
type ScoredSkill struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// RoleRequirement describes the skills a role expects, grouped by phase.
// A role need not populate every canonical phase.
type RoleRequirement struct {
	RoleName string
	Sector   string
	Phases   map[string][]string
}

// ReadinessResult classifies a role's required skills against a user's
// confidence map. Counts always sum to SkillsTotal.
type ReadinessResult struct {
	SkillsTotal    int     `json:"skills_total"`
	SkillsComplete int     `json:"skills_complete"`
	SkillsWeak     int     `json:"skills_weak"`
	SkillsMissing  int     `json:"skills_missing"`
	ReadinessScore float64 `json:"readiness_score"`
}

// FitResult is readiness restricted to the foundation+core phases.
type FitResult struct {
	FitScore        float64 `json:"fit_score"`
	MatchedRequired int     `json:"matched_required"`
	TotalRequired   int     `json:"total_required"`
}

// Course is a single course recommendation attached to a roadmap skill.
type Course struct {
	Platform string `json:"platform"`
	Title    string `json:"title"`
	URL      string `json:"url"`
}

// CourseCatalogEntry is static reference data: one course keyed by skill.
type CourseCatalogEntry struct {
	Skill    string
	Platform string
	Title    string
	URL      string
	Sector   string
}

// RoadmapSkill is a gap skill with its course recommendations.
type RoadmapSkill struct {
	Name    string   `json:"name"`
	Courses []Course `json:"courses"`
}

// RoadmapPhase groups gap skills under one phase.
type RoadmapPhase struct {
	Phase  string         `json:"phase"`
	Skills []RoadmapSkill `json:"skills"`
}

// Profile is a stored user.
type Profile struct {
	ID          string
	Email       string
	Name        string
	CreatedAt   time.Time
	LastUpdated time.Time
}

// UserSkill is one persisted skill row for a user. Evidence holds the
// supporting snippets or descriptive strings as stored.
type UserSkill struct {
	ID            string
	UserID        string
	SkillName     string
	SectorContext string
	Confidence    float64
	Source        string
	AcquiredAt    time.Time
	Evidence      []string
}

// UserCourse is one persisted completed course for a user.
type UserCourse struct {
	ID             string
	UserID         string
	CourseName     string
	Platform       string
	Sector         string
	CompletedAt    time.Time
	SkillsGained   []string
	CertificateURL string
}

// ImportedProject is a project record produced by an import source.
type ImportedProject struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Stars       int      `json:"stars"`
}

// Repositories (ports)

type ProfileRepository interface {
	Create(ctx Context, p Profile) (string, error)
	Get(ctx Context, id string) (Profile, error)
	Delete(ctx Context, id string) error
	Touch(ctx Context, id string) error
	Count(ctx Context) (int64, error)
}

type SkillRepository interface {
	// Insert stores a skill row; a duplicate (user, skill, source) row is
	// reported via ErrConflict so importers can skip it.
	Insert(ctx Context, s UserSkill) (string, error)
	ListByUser(ctx Context, userID string) ([]UserSkill, error)
	Count(ctx Context) (int64, error)
}

type CourseRepository interface {
	Insert(ctx Context, c UserCourse) (string, error)
	ListByUser(ctx Context, userID string) ([]UserCourse, error)
}

// TextExtractor (port)
// Extract converts raw document bytes into plain text using the filename
// extension as a format hint. Unrecognized formats fail with
// ErrUnsupportedFormat.
type TextExtractor interface {
	Extract(ctx Context, fileName string, data []byte) (string, error)
}

// ReferenceProvider (port) exposes the three read-only reference tables:
// the skill ontology, role requirements and the course catalog.
// Implementations are loaded once per process and must be safe for
// concurrent reads.
type ReferenceProvider interface {
	// Ontology returns the known skill vocabulary in a stable order.
	Ontology() []string
	// Role returns the requirement set for a role (matched lower-cased),
	// or ErrUnknownRole when the role has no entry.
	Role(name string) (RoleRequirement, error)
	// Roles lists every known role.
	Roles() []RoleRequirement
	// DefaultRole returns the generic fallback requirement set.
	DefaultRole() RoleRequirement
	// CoursesFor returns catalog entries for a skill (case-insensitive
	// exact match); an unknown skill yields an empty slice, never an error.
	CoursesFor(skill string) []CourseCatalogEntry
}

// SkillImporter (port) is a source of already-shaped skill and course
// records (LinkedIn demo data, GitHub, ...).
type SkillImporter interface {
	ImportSkills(ctx Context, account string) ([]UserSkill, error)
	ImportCourses(ctx Context, account string) ([]UserCourse, error)
}

// Context is an alias to context.Context kept for decoupling; adapters and
// usecases pass the request context through unchanged.
type Context = context.Context
