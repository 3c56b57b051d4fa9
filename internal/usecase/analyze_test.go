package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillgenome/skillgenome/internal/domain"
	"github.com/skillgenome/skillgenome/internal/usecase"
)

func TestAnalyzeDocument(t *testing.T) {
	t.Parallel()
	svc := usecase.NewAnalyzeService(stubExtractor{
		text: "Wrote ETL jobs in Python and SQL. Deployed with Docker. Python everywhere.",
	}, newStubRef())

	res, err := svc.AnalyzeDocument(context.Background(), "resume.pdf", []byte("fake"), "data analyst")
	require.NoError(t, err)
	assert.Equal(t, "data analyst", res.Role)
	require.NotEmpty(t, res.Skills)

	names := map[string]float64{}
	for _, s := range res.Skills {
		names[s.Name] = s.Confidence
	}
	assert.Contains(t, names, "python")
	assert.Contains(t, names, "sql")
	assert.Contains(t, names, "docker")
	// python occurs twice, sql once; more signal means at least as much confidence
	assert.GreaterOrEqual(t, names["python"], names["sql"])

	// sorted descending
	for i := 1; i < len(res.Skills); i++ {
		assert.GreaterOrEqual(t, res.Skills[i-1].Confidence, res.Skills[i].Confidence)
	}
}

func TestAnalyzeDocument_ExtractorError(t *testing.T) {
	t.Parallel()
	svc := usecase.NewAnalyzeService(stubExtractor{err: domain.ErrUnsupportedFormat}, newStubRef())
	_, err := svc.AnalyzeDocument(context.Background(), "resume.png", []byte("x"), "data analyst")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
}

func TestAnalyzeDocument_UnknownRoleFallsBack(t *testing.T) {
	t.Parallel()
	svc := usecase.NewAnalyzeService(stubExtractor{text: "Years of Python."}, newStubRef())
	res, err := svc.AnalyzeDocument(context.Background(), "resume.pdf", []byte("x"), "quantum gardener")
	require.NoError(t, err)
	assert.Equal(t, "general", res.Role)
}

func TestAnalyzePrescored(t *testing.T) {
	t.Parallel()
	svc := usecase.NewAnalyzeService(stubExtractor{}, newStubRef())

	res, err := svc.AnalyzePrescored(context.Background(), []domain.ScoredSkill{
		{Name: " sql ", Confidence: 0.9},
		{Name: "python", Confidence: 0.3},
		{Name: "", Confidence: 0.5}, // blank names dropped
	}, "data analyst")
	require.NoError(t, err)
	require.Len(t, res.Skills, 2)
	assert.Equal(t, "sql", res.Skills[0].Name)

	// python is weak (0.3 < 0.5) so it appears as a foundation gap
	var foundation *domain.RoadmapPhase
	for i := range res.Roadmap {
		if res.Roadmap[i].Phase == "foundation" {
			foundation = &res.Roadmap[i]
		}
	}
	require.NotNil(t, foundation)
	gapNames := map[string]bool{}
	for _, sk := range foundation.Skills {
		gapNames[sk.Name] = true
	}
	assert.True(t, gapNames["python"])
	assert.False(t, gapNames["sql"])
}

func TestAnalyzePrescored_OutOfRangeConfidence(t *testing.T) {
	t.Parallel()
	svc := usecase.NewAnalyzeService(stubExtractor{}, newStubRef())

	_, err := svc.AnalyzePrescored(context.Background(), []domain.ScoredSkill{
		{Name: "sql", Confidence: 1.2},
	}, "data analyst")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
	assert.Contains(t, err.Error(), "sql")
}

func TestAnalyzePrescored_Empty(t *testing.T) {
	t.Parallel()
	svc := usecase.NewAnalyzeService(stubExtractor{}, newStubRef())
	_, err := svc.AnalyzePrescored(context.Background(), nil, "data analyst")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidArgument))
}

func TestAnalyze_RoadmapCoursesAttached(t *testing.T) {
	t.Parallel()
	svc := usecase.NewAnalyzeService(stubExtractor{}, newStubRef())
	res, err := svc.AnalyzePrescored(context.Background(), []domain.ScoredSkill{
		{Name: "python", Confidence: 0.9},
	}, "data analyst")
	require.NoError(t, err)

	for _, phase := range res.Roadmap {
		for _, sk := range phase.Skills {
			if sk.Name == "sql" {
				require.Len(t, sk.Courses, 1)
				assert.Equal(t, "SQL Tutorial", sk.Courses[0].Title)
				return
			}
		}
	}
	t.Fatal("expected sql gap with course recommendation")
}
