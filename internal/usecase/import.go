package usecase

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/skillgenome/skillgenome/internal/domain"
)

// ImportService pulls skill and course records from an external source and
// persists them against a profile, skipping rows the user already has.
type ImportService struct {
	Profiles domain.ProfileRepository
	Skills   domain.SkillRepository
	Courses  domain.CourseRepository
}

// NewImportService constructs an ImportService.
func NewImportService(p domain.ProfileRepository, s domain.SkillRepository, c domain.CourseRepository) ImportService {
	return ImportService{Profiles: p, Skills: s, Courses: c}
}

// ImportCounts reports how many rows each import persisted vs skipped.
type ImportCounts struct {
	SkillsImported  int `json:"skills_imported"`
	SkillsSkipped   int `json:"skills_skipped"`
	CoursesImported int `json:"courses_imported"`
	CoursesSkipped  int `json:"courses_skipped"`
}

// Import type selectors.
const (
	ImportAll     = "all"
	ImportSkills  = "skills"
	ImportCourses = "courses"
)

// Run imports skills and/or courses for userID from the given source.
// importType is "skills", "courses" or "all" (empty means all). The profile
// must exist; duplicate rows are skipped, not failed. last_updated is
// bumped when anything was written.
func (s ImportService) Run(ctx domain.Context, imp domain.SkillImporter, userID, account, importType string) (ImportCounts, error) {
	switch importType {
	case "", ImportAll, ImportSkills, ImportCourses:
	default:
		return ImportCounts{}, fmt.Errorf("op=import.run: import_type %q: %w", importType, domain.ErrInvalidArgument)
	}
	if _, err := s.Profiles.Get(ctx, userID); err != nil {
		return ImportCounts{}, err
	}

	var counts ImportCounts
	if importType != ImportCourses {
		skills, err := imp.ImportSkills(ctx, account)
		if err != nil {
			return ImportCounts{}, err
		}
		for _, row := range skills {
			row.UserID = userID
			if _, err := s.Skills.Insert(ctx, row); err != nil {
				if errors.Is(err, domain.ErrConflict) {
					counts.SkillsSkipped++
					continue
				}
				return ImportCounts{}, err
			}
			counts.SkillsImported++
		}
	}

	if importType != ImportSkills {
		courses, err := imp.ImportCourses(ctx, account)
		if err != nil {
			return ImportCounts{}, err
		}
		for _, row := range courses {
			row.UserID = userID
			if _, err := s.Courses.Insert(ctx, row); err != nil {
				if errors.Is(err, domain.ErrConflict) {
					counts.CoursesSkipped++
					continue
				}
				return ImportCounts{}, err
			}
			counts.CoursesImported++
		}
	}

	if counts.SkillsImported > 0 || counts.CoursesImported > 0 {
		if err := s.Profiles.Touch(ctx, userID); err != nil {
			slog.Warn("touch after import failed", slog.String("user_id", userID), slog.Any("error", err))
		}
	}
	slog.Info("import finished",
		slog.String("user_id", userID),
		slog.Int("skills_imported", counts.SkillsImported),
		slog.Int("skills_skipped", counts.SkillsSkipped),
		slog.Int("courses_imported", counts.CoursesImported),
		slog.Int("courses_skipped", counts.CoursesSkipped))
	return counts, nil
}
