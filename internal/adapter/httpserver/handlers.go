package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/skillgenome/skillgenome/internal/adapter/importer/github"
	"github.com/skillgenome/skillgenome/internal/adapter/importer/linkedin"
	obs "github.com/skillgenome/skillgenome/internal/adapter/observability"
	"github.com/skillgenome/skillgenome/internal/config"
	"github.com/skillgenome/skillgenome/internal/domain"
	"github.com/skillgenome/skillgenome/internal/usecase"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg       config.Config
	Analyze   usecase.AnalyzeService
	Readiness usecase.ReadinessService
	Profiles  usecase.ProfileService
	Imports   usecase.ImportService
	LinkedIn  *linkedin.Importer
	GitHub    *github.Client
	Ref       domain.ReferenceProvider
	DBCheck   func(ctx domain.Context) error
	TikaCheck func(ctx domain.Context) error
}

// NewServer wires a Server from its dependencies.
func NewServer(
	cfg config.Config,
	analyze usecase.AnalyzeService,
	readiness usecase.ReadinessService,
	profiles usecase.ProfileService,
	imports usecase.ImportService,
	li *linkedin.Importer,
	gh *github.Client,
	ref domain.ReferenceProvider,
) *Server {
	return &Server{
		Cfg:       cfg,
		Analyze:   analyze,
		Readiness: readiness,
		Profiles:  profiles,
		Imports:   imports,
		LinkedIn:  li,
		GitHub:    gh,
		Ref:       ref,
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// acceptsJSON reports whether the request is willing to receive JSON.
func acceptsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	for _, part := range strings.Split(accept, ",") {
		mt, _, err := mime.ParseMediaType(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if mt == "application/json" || mt == "*/*" || mt == "application/*" {
			return true
		}
	}
	return false
}

func writeNotAcceptable(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotAcceptable)
	_, _ = w.Write([]byte(`{"error":{"code":"NOT_ACCEPTABLE","message":"client must accept application/json"}}`))
}

// errTooLarge maps to 413 directly; it is not part of the domain taxonomy.
var errTooLarge = errors.New("request entity too large")

// resumeFile pulls the uploaded resume out of a multipart request and
// enforces size, extension and content-type limits.
func (s *Server) resumeFile(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		if strings.Contains(err.Error(), "too large") {
			return "", nil, errTooLarge
		}
		return "", nil, fmt.Errorf("op=http.resume: parse multipart: %w", domain.ErrInvalidArgument)
	}
	file, hdr, err := r.FormFile("resume")
	if err != nil {
		return "", nil, fmt.Errorf("op=http.resume: missing resume file: %w", domain.ErrInvalidArgument)
	}
	defer func() { _ = file.Close() }()

	ext := strings.ToLower(filepath.Ext(hdr.Filename))
	if ext != ".pdf" && ext != ".docx" {
		return "", nil, fmt.Errorf("op=http.resume: extension %q: %w", ext, domain.ErrUnsupportedFormat)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", nil, fmt.Errorf("op=http.resume: read upload: %w", domain.ErrInternal)
	}
	if len(data) == 0 {
		return "", nil, fmt.Errorf("op=http.resume: empty upload: %w", domain.ErrInvalidArgument)
	}
	kind := mimetype.Detect(data)
	if !resumeMIMEAllowed(kind.String()) {
		return "", nil, fmt.Errorf("op=http.resume: content type %s: %w", kind.String(), domain.ErrUnsupportedFormat)
	}
	return hdr.Filename, data, nil
}

func resumeMIMEAllowed(mt string) bool {
	switch mt {
	case "application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/zip": // minimal docx files sniff as plain zip
		return true
	}
	return false
}

func (s *Server) handleUploadErr(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, errTooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, map[string]any{
			"error": map[string]any{"code": "TOO_LARGE", "message": fmt.Sprintf("upload exceeds %d MB", s.Cfg.MaxUploadMB)},
		})
		return
	}
	writeError(w, r, err, nil)
}

// ExtractHandler accepts a resume upload and returns the scored skills
// detected in it, without roadmap assembly.
func (s *Server) ExtractHandler(w http.ResponseWriter, r *http.Request) {
	if !acceptsJSON(r) {
		writeNotAcceptable(w)
		return
	}
	name, data, err := s.resumeFile(w, r)
	if err != nil {
		s.handleUploadErr(w, r, err)
		return
	}
	start := time.Now()
	skills, err := s.Analyze.ExtractSkills(r.Context(), name, data)
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
	if err != nil {
		obs.ObserveExtraction(format, "error", time.Since(start))
		writeError(w, r, err, nil)
		return
	}
	obs.ObserveExtraction(format, "ok", time.Since(start))
	writeJSON(w, http.StatusOK, map[string]any{"extracted_skills": skills})
}

type prescoredSkill struct {
	Name       string  `json:"name" validate:"required"`
	Confidence float64 `json:"confidence"`
}

type analyzeRequest struct {
	Skills     []prescoredSkill `json:"skills" validate:"required,min=1,dive"`
	TargetRole string           `json:"target_role"`
}

// AnalyzeHandler runs the full analysis. Multipart requests carry a resume
// file plus an optional target_role field; JSON requests carry pre-scored
// skills.
func (s *Server) AnalyzeHandler(w http.ResponseWriter, r *http.Request) {
	if !acceptsJSON(r) {
		writeNotAcceptable(w)
		return
	}
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		s.analyzeDocument(w, r)
		return
	}
	s.analyzePrescored(w, r)
}

func (s *Server) analyzeDocument(w http.ResponseWriter, r *http.Request) {
	name, data, err := s.resumeFile(w, r)
	if err != nil {
		s.handleUploadErr(w, r, err)
		return
	}
	role := r.FormValue("target_role")
	res, err := s.Analyze.AnalyzeDocument(r.Context(), name, data, role)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	obs.ObserveAnalysis("document", len(res.Skills))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) analyzePrescored(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("op=http.analyze: decode body: %w", domain.ErrInvalidArgument), nil)
		return
	}
	if err := getValidator().Struct(req); err != nil {
		writeError(w, r, fmt.Errorf("op=http.analyze: %v: %w", err, domain.ErrInvalidArgument), nil)
		return
	}
	skills := make([]domain.ScoredSkill, 0, len(req.Skills))
	for _, sk := range req.Skills {
		skills = append(skills, domain.ScoredSkill{Name: sk.Name, Confidence: sk.Confidence})
	}
	res, err := s.Analyze.AnalyzePrescored(r.Context(), skills, req.TargetRole)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	obs.ObserveAnalysis("prescored", len(res.Skills))
	writeJSON(w, http.StatusOK, res)
}

// RolesHandler lists the known role requirement sets.
func (s *Server) RolesHandler(w http.ResponseWriter, _ *http.Request) {
	type roleItem struct {
		Role   string `json:"role"`
		Sector string `json:"sector"`
	}
	roles := s.Ref.Roles()
	out := make([]roleItem, 0, len(roles))
	for _, rr := range roles {
		out = append(out, roleItem{Role: rr.RoleName, Sector: rr.Sector})
	}
	writeJSON(w, http.StatusOK, map[string]any{"roles": out})
}

type readinessRequest struct {
	UserID string                `json:"user_id"`
	Skills []usecase.SkillRecord `json:"skills"`
	Role   string                `json:"role" validate:"required"`
}

// ReadinessHandler evaluates role readiness either for a stored profile
// (user_id) or for caller-supplied skill records.
func (s *Server) ReadinessHandler(w http.ResponseWriter, r *http.Request) {
	if !acceptsJSON(r) {
		writeNotAcceptable(w)
		return
	}
	var req readinessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("op=http.readiness: decode body: %w", domain.ErrInvalidArgument), nil)
		return
	}
	if err := getValidator().Struct(req); err != nil {
		writeError(w, r, fmt.Errorf("op=http.readiness: %v: %w", err, domain.ErrInvalidArgument), nil)
		return
	}
	var (
		report usecase.ReadinessReport
		err    error
	)
	switch {
	case req.UserID != "":
		if vr := ValidateID("user_id", req.UserID); !vr.Valid {
			writeError(w, r, fmt.Errorf("op=http.readiness: %s: %w", vr.Errors[0].Message, domain.ErrInvalidArgument), nil)
			return
		}
		report, err = s.Readiness.ForUser(r.Context(), req.UserID, req.Role)
	case len(req.Skills) > 0:
		report, err = s.Readiness.ForRecords(r.Context(), req.Skills, req.Role)
	default:
		writeError(w, r, fmt.Errorf("op=http.readiness: user_id or skills required: %w", domain.ErrInvalidArgument), nil)
		return
	}
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	obs.ObserveReadiness(report.Readiness.ReadinessScore)
	writeJSON(w, http.StatusOK, report)
}

type createProfileRequest struct {
	Email string `json:"email" validate:"required"`
	Name  string `json:"name" validate:"required"`
}

// CreateProfileHandler stores a new profile.
func (s *Server) CreateProfileHandler(w http.ResponseWriter, r *http.Request) {
	if !acceptsJSON(r) {
		writeNotAcceptable(w)
		return
	}
	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("op=http.profiles: decode body: %w", domain.ErrInvalidArgument), nil)
		return
	}
	if err := getValidator().Struct(req); err != nil {
		writeError(w, r, fmt.Errorf("op=http.profiles: %v: %w", err, domain.ErrInvalidArgument), nil)
		return
	}
	id, err := s.Profiles.Create(r.Context(), req.Email, req.Name)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

type profileDTO struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
}

type userSkillDTO struct {
	SkillName     string    `json:"skill_name"`
	SectorContext string    `json:"sector_context,omitempty"`
	Confidence    float64   `json:"confidence"`
	Source        string    `json:"source"`
	AcquiredAt    time.Time `json:"acquired_at"`
	Evidence      []string  `json:"evidence,omitempty"`
}

type userCourseDTO struct {
	CourseName     string    `json:"course_name"`
	Platform       string    `json:"platform"`
	Sector         string    `json:"sector,omitempty"`
	CompletedAt    time.Time `json:"completed_at"`
	SkillsGained   []string  `json:"skills_gained,omitempty"`
	CertificateURL string    `json:"certificate_url,omitempty"`
}

func toProfileResponse(v usecase.ProfileView) map[string]any {
	skills := make([]userSkillDTO, 0, len(v.Skills))
	for _, sk := range v.Skills {
		skills = append(skills, userSkillDTO{
			SkillName:     sk.SkillName,
			SectorContext: sk.SectorContext,
			Confidence:    sk.Confidence,
			Source:        sk.Source,
			AcquiredAt:    sk.AcquiredAt,
			Evidence:      sk.Evidence,
		})
	}
	courses := make([]userCourseDTO, 0, len(v.Courses))
	for _, c := range v.Courses {
		courses = append(courses, userCourseDTO{
			CourseName:     c.CourseName,
			Platform:       c.Platform,
			Sector:         c.Sector,
			CompletedAt:    c.CompletedAt,
			SkillsGained:   c.SkillsGained,
			CertificateURL: c.CertificateURL,
		})
	}
	return map[string]any{
		"profile": profileDTO{
			ID:          v.Profile.ID,
			Email:       v.Profile.Email,
			Name:        v.Profile.Name,
			CreatedAt:   v.Profile.CreatedAt,
			LastUpdated: v.Profile.LastUpdated,
		},
		"skills":  skills,
		"courses": courses,
	}
}

// GetProfileHandler returns a profile with its skill and course rows.
func (s *Server) GetProfileHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if vr := ValidateID("id", id); !vr.Valid {
		writeError(w, r, fmt.Errorf("op=http.profiles: %s: %w", vr.Errors[0].Message, domain.ErrInvalidArgument), nil)
		return
	}
	view, err := s.Profiles.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(view))
}

// DeleteProfileHandler removes a profile and its rows.
func (s *Server) DeleteProfileHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if vr := ValidateID("id", id); !vr.Valid {
		writeError(w, r, fmt.Errorf("op=http.profiles: %s: %w", vr.Errors[0].Message, domain.ErrInvalidArgument), nil)
		return
	}
	if err := s.Profiles.Delete(r.Context(), id); err != nil {
		writeError(w, r, err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type linkedinImportRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	Account    string `json:"account"`
	ImportType string `json:"import_type" validate:"omitempty,oneof=skills courses all"`
}

// ImportLinkedInHandler imports the LinkedIn demo dataset into a profile.
func (s *Server) ImportLinkedInHandler(w http.ResponseWriter, r *http.Request) {
	if !acceptsJSON(r) {
		writeNotAcceptable(w)
		return
	}
	var req linkedinImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("op=http.import: decode body: %w", domain.ErrInvalidArgument), nil)
		return
	}
	if err := getValidator().Struct(req); err != nil {
		writeError(w, r, fmt.Errorf("op=http.import: %v: %w", err, domain.ErrInvalidArgument), nil)
		return
	}
	account := req.Account
	if account == "" {
		account = req.UserID
	}
	counts, err := s.Imports.Run(r.Context(), s.LinkedIn, req.UserID, account, req.ImportType)
	if err != nil {
		obs.ObserveImport(domain.SourceLinkedIn, "error")
		writeError(w, r, err, nil)
		return
	}
	obs.ObserveImport(domain.SourceLinkedIn, "ok")
	writeJSON(w, http.StatusOK, map[string]any{"source": domain.SourceLinkedIn, "counts": counts})
}

// LinkedInPreviewHandler shows the demo profile without persisting it.
func (s *Server) LinkedInPreviewHandler(w http.ResponseWriter, r *http.Request) {
	preview, err := s.LinkedIn.ProfilePreview(r.Context(), "")
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, preview)
}

type githubImportRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	Username string `json:"username" validate:"required"`
}

// ImportGitHubHandler derives skills from a GitHub account's public
// repositories and imports them into a profile. The response carries the
// projects that backed the inference.
func (s *Server) ImportGitHubHandler(w http.ResponseWriter, r *http.Request) {
	if !acceptsJSON(r) {
		writeNotAcceptable(w)
		return
	}
	var req githubImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, fmt.Errorf("op=http.import: decode body: %w", domain.ErrInvalidArgument), nil)
		return
	}
	if err := getValidator().Struct(req); err != nil {
		writeError(w, r, fmt.Errorf("op=http.import: %v: %w", err, domain.ErrInvalidArgument), nil)
		return
	}
	counts, err := s.Imports.Run(r.Context(), s.GitHub, req.UserID, req.Username, usecase.ImportAll)
	if err != nil {
		obs.ObserveImport(domain.SourceGitHub, "error")
		writeError(w, r, err, nil)
		return
	}
	projects, err := s.GitHub.ImportProjects(r.Context(), req.Username)
	if err != nil {
		// The import already succeeded; degrade to an empty project list.
		projects = nil
	}
	obs.ObserveImport(domain.SourceGitHub, "ok")
	writeJSON(w, http.StatusOK, map[string]any{
		"source":   domain.SourceGitHub,
		"counts":   counts,
		"projects": projects,
	})
}

// HealthzHandler reports process liveness.
func (s *Server) HealthzHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyzHandler reports dependency readiness. Checks run only for the
// dependencies that were wired in.
func (s *Server) ReadyzHandler(w http.ResponseWriter, r *http.Request) {
	type check struct {
		Name string `json:"name"`
		OK   bool   `json:"ok"`
		Err  string `json:"error,omitempty"`
	}
	checks := make([]check, 0, 2)
	healthy := true

	if s.DBCheck != nil {
		c := check{Name: "database", OK: true}
		if err := s.DBCheck(r.Context()); err != nil {
			c.OK = false
			c.Err = err.Error()
			healthy = false
		}
		checks = append(checks, c)
	}
	if s.TikaCheck != nil {
		c := check{Name: "extractor", OK: true}
		if err := s.TikaCheck(r.Context()); err != nil {
			c.OK = false
			c.Err = err.Error()
			healthy = false
		}
		checks = append(checks, c)
	}

	status := http.StatusOK
	state := "ready"
	if !healthy {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}
	writeJSON(w, status, map[string]any{"status": state, "checks": checks})
}

// AdminStatsHandler returns aggregate row counts. Mounted behind AdminAuth.
func (s *Server) AdminStatsHandler(w http.ResponseWriter, r *http.Request) {
	profiles, skillRows, err := s.Profiles.Stats(r.Context())
	if err != nil {
		writeError(w, r, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"profiles":     profiles,
		"skill_rows":   skillRows,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	})
}
