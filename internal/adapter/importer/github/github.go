// Package github imports skills and projects from a user's public GitHub
// repositories.
//
// Repository languages and topics are folded into skill rows: a skill's
// confidence is the fraction of the user's repositories that exercise it,
// capped at 1.0. The ten most recently updated repositories become project
// records.
package github

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/skillgenome/skillgenome/internal/domain"
)

const maxProjects = 10

// BackoffConfig shapes the retry policy for GitHub API calls.
type BackoffConfig struct {
	MaxElapsedTime  time.Duration
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

// DefaultBackoff returns a retry policy suitable for interactive requests.
func DefaultBackoff() BackoffConfig {
	return BackoffConfig{
		MaxElapsedTime:  15 * time.Second,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
		Multiplier:      1.5,
	}
}

// Client talks to the GitHub REST API and implements domain.SkillImporter.
type Client struct {
	baseURL    string
	httpClient *http.Client
	bo         BackoffConfig
}

// New constructs a GitHub client. baseURL defaults to the public API when
// empty; tests point it at a local server.
func New(baseURL string, bo BackoffConfig) *Client {
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   10 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		bo: bo,
	}
}

// hasDomainSentinel reports whether err already carries one of the domain
// error sentinels, so retries must not re-wrap it.
func hasDomainSentinel(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidArgument) ||
		errors.Is(err, domain.ErrUpstreamTimeout) ||
		errors.Is(err, domain.ErrInternal)
}

// repo mirrors the subset of the GitHub repository payload we consume.
type repo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	HTMLURL     string   `json:"html_url"`
	Language    string   `json:"language"`
	Topics      []string `json:"topics"`
	Stars       int      `json:"stargazers_count"`
	Fork        bool     `json:"fork"`
}

// fetchRepos lists the user's public repositories, most recently updated
// first, retrying transient failures.
func (c *Client) fetchRepos(ctx domain.Context, username string) ([]repo, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("op=github.fetch: empty username: %w", domain.ErrInvalidArgument)
	}
	u := fmt.Sprintf("%s/users/%s/repos?per_page=100&sort=updated", c.baseURL, username)

	var repos []repo
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/vnd.github+json")
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()
		switch {
		case resp.StatusCode == http.StatusNotFound:
			return backoff.Permanent(fmt.Errorf("op=github.fetch: user %q: %w", username, domain.ErrNotFound))
		case resp.StatusCode == http.StatusForbidden:
			// Rate limited; retrying within the backoff window rarely helps.
			return backoff.Permanent(fmt.Errorf("op=github.fetch: rate limited: %w", domain.ErrUpstreamTimeout))
		case resp.StatusCode >= 500:
			return fmt.Errorf("op=github.fetch: status %d", resp.StatusCode)
		case resp.StatusCode != http.StatusOK:
			return backoff.Permanent(fmt.Errorf("op=github.fetch: status %d: %w", resp.StatusCode, domain.ErrInternal))
		}
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		repos = repos[:0]
		if err := json.Unmarshal(b, &repos); err != nil {
			return backoff.Permanent(fmt.Errorf("op=github.fetch: decode: %w", err))
		}
		return nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = c.bo.MaxElapsedTime
	bo.InitialInterval = c.bo.InitialInterval
	bo.MaxInterval = c.bo.MaxInterval
	bo.Multiplier = c.bo.Multiplier
	if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
		if hasDomainSentinel(err) {
			return nil, err
		}
		return nil, fmt.Errorf("op=github.fetch: %w: %w", domain.ErrUpstreamTimeout, err)
	}
	return repos, nil
}

// ImportSkills derives skill rows from repository languages and topics.
func (c *Client) ImportSkills(ctx domain.Context, username string) ([]domain.UserSkill, error) {
	repos, err := c.fetchRepos(ctx, username)
	if err != nil {
		return nil, err
	}
	total := len(repos)
	if total == 0 {
		return nil, nil
	}

	counts := map[string]int{}
	for _, r := range repos {
		if lang := strings.ToLower(strings.TrimSpace(r.Language)); lang != "" {
			counts[lang]++
		}
		for _, topic := range r.Topics {
			if t := strings.ToLower(strings.TrimSpace(topic)); t != "" {
				counts[t]++
			}
		}
	}

	now := time.Now().UTC()
	out := make([]domain.UserSkill, 0, len(counts))
	for name, n := range counts {
		conf := float64(n) / float64(total)
		if conf > 1.0 {
			conf = 1.0
		}
		conf = math.Round(conf*100) / 100
		out = append(out, domain.UserSkill{
			UserID:     username,
			SkillName:  name,
			Confidence: conf,
			Source:     domain.SourceGitHub,
			AcquiredAt: now,
			Evidence:   []string{fmt.Sprintf("used in %d of %d repositories", n, total)},
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].SkillName < out[j].SkillName
	})
	return out, nil
}

// ImportCourses is a no-op: GitHub carries no course completions.
func (c *Client) ImportCourses(_ domain.Context, _ string) ([]domain.UserCourse, error) {
	return nil, nil
}

// ImportProjects returns the user's most recently updated repositories as
// project records, skipping forks.
func (c *Client) ImportProjects(ctx domain.Context, username string) ([]domain.ImportedProject, error) {
	repos, err := c.fetchRepos(ctx, username)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ImportedProject, 0, maxProjects)
	for _, r := range repos {
		if r.Fork {
			continue
		}
		out = append(out, domain.ImportedProject{
			Name:        r.Name,
			Description: r.Description,
			URL:         r.HTMLURL,
			Language:    r.Language,
			Topics:      r.Topics,
			Stars:       r.Stars,
		})
		if len(out) == maxProjects {
			break
		}
	}
	return out, nil
}
