// Package linkedin provides a demo LinkedIn profile import source.
//
// LinkedIn has no public profile API, so this importer serves a fixed,
// realistic data set. It lets the import pipeline, persistence and
// readiness flows run end to end without external credentials.
package linkedin

import (
	"time"

	"github.com/skillgenome/skillgenome/internal/domain"
)

// Importer implements domain.SkillImporter over canned demo data.
type Importer struct{}

// New constructs the demo importer.
func New() *Importer { return &Importer{} }

// Experience is one position record surfaced by Preview.
type Experience struct {
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Duration string   `json:"duration"`
	Skills   []string `json:"skills"`
}

// Preview describes the demo profile without persisting anything.
type Preview struct {
	Headline    string       `json:"headline"`
	Skills      []string     `json:"skills"`
	Courses     []string     `json:"courses"`
	Experiences []Experience `json:"experiences"`
}

var demoSkills = []struct {
	name       string
	confidence float64
	evidence   string
}{
	{"python", 0.9, "endorsed by 24 connections"},
	{"sql", 0.85, "endorsed by 18 connections"},
	{"machine learning", 0.8, "listed in 2 positions"},
	{"data analysis", 0.85, "listed in 3 positions"},
	{"tableau", 0.7, "endorsed by 9 connections"},
	{"communication", 0.75, "endorsed by 15 connections"},
	{"leadership", 0.7, "endorsed by 11 connections"},
	{"project management", 0.65, "listed in 1 position"},
}

var demoCourses = []struct {
	name, platform, sector string
	skills                 []string
}{
	{"Machine Learning by Andrew Ng", "Coursera", "Technology", []string{"machine learning"}},
	{"SQL for Data Science", "Coursera", "Technology", []string{"sql"}},
	{"Data Scientist with Python", "DataCamp", "Technology", []string{"python", "pandas"}},
}

var demoExperiences = []Experience{
	{
		Title:    "Data Analyst",
		Company:  "Northwind Analytics",
		Duration: "2021 - 2023",
		Skills:   []string{"sql", "tableau", "data analysis"},
	},
	{
		Title:    "Junior Data Scientist",
		Company:  "Contoso Labs",
		Duration: "2023 - present",
		Skills:   []string{"python", "machine learning", "communication"},
	},
}

// ImportSkills returns the demo skill rows shaped for the given account.
func (i *Importer) ImportSkills(_ domain.Context, account string) ([]domain.UserSkill, error) {
	now := time.Now().UTC()
	out := make([]domain.UserSkill, 0, len(demoSkills))
	for _, s := range demoSkills {
		out = append(out, domain.UserSkill{
			UserID:     account,
			SkillName:  s.name,
			Confidence: s.confidence,
			Source:     domain.SourceLinkedIn,
			AcquiredAt: now,
			Evidence:   []string{s.evidence},
		})
	}
	return out, nil
}

// ImportCourses returns the demo course completions for the given account.
func (i *Importer) ImportCourses(_ domain.Context, account string) ([]domain.UserCourse, error) {
	now := time.Now().UTC()
	out := make([]domain.UserCourse, 0, len(demoCourses))
	for _, c := range demoCourses {
		out = append(out, domain.UserCourse{
			UserID:       account,
			CourseName:   c.name,
			Platform:     c.platform,
			Sector:       c.sector,
			CompletedAt:  now,
			SkillsGained: c.skills,
		})
	}
	return out, nil
}

// ProfilePreview returns the demo profile summary without persisting anything.
func (i *Importer) ProfilePreview(_ domain.Context, _ string) (Preview, error) {
	p := Preview{
		Headline:    "Data professional, analytics and applied ML",
		Experiences: demoExperiences,
	}
	for _, s := range demoSkills {
		p.Skills = append(p.Skills, s.name)
	}
	for _, c := range demoCourses {
		p.Courses = append(p.Courses, c.name)
	}
	return p, nil
}
