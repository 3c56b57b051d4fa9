package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/skillgenome/skillgenome/internal/domain"
)

// ProfileService manages user profiles and their persisted skill rows.
type ProfileService struct {
	Profiles domain.ProfileRepository
	Skills   domain.SkillRepository
	Courses  domain.CourseRepository
}

// NewProfileService constructs a ProfileService.
func NewProfileService(p domain.ProfileRepository, s domain.SkillRepository, c domain.CourseRepository) ProfileService {
	return ProfileService{Profiles: p, Skills: s, Courses: c}
}

// ProfileView is a profile with its skill and course rows attached.
type ProfileView struct {
	Profile domain.Profile     `json:"profile"`
	Skills  []domain.UserSkill `json:"skills"`
	Courses []domain.UserCourse `json:"courses"`
}

// Create validates and stores a new profile, returning its id.
func (s ProfileService) Create(ctx domain.Context, email, name string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("op=profile.create: empty name: %w", domain.ErrInvalidArgument)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", fmt.Errorf("op=profile.create: invalid email: %w", domain.ErrInvalidArgument)
	}
	return s.Profiles.Create(ctx, domain.Profile{Email: email, Name: name})
}

// Get returns the profile with its skills and courses.
func (s ProfileService) Get(ctx domain.Context, id string) (ProfileView, error) {
	p, err := s.Profiles.Get(ctx, id)
	if err != nil {
		return ProfileView{}, err
	}
	skills, err := s.Skills.ListByUser(ctx, id)
	if err != nil {
		return ProfileView{}, err
	}
	courses, err := s.Courses.ListByUser(ctx, id)
	if err != nil {
		return ProfileView{}, err
	}
	return ProfileView{Profile: p, Skills: skills, Courses: courses}, nil
}

// Delete removes the profile; dependent rows cascade in the schema.
func (s ProfileService) Delete(ctx domain.Context, id string) error {
	return s.Profiles.Delete(ctx, id)
}

// Stats returns store-wide counts for the admin endpoint.
func (s ProfileService) Stats(ctx domain.Context) (profiles, skillRows int64, err error) {
	profiles, err = s.Profiles.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	skillRows, err = s.Skills.Count(ctx)
	if err != nil {
		return 0, 0, err
	}
	return profiles, skillRows, nil
}
