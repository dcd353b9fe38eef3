// Package export publishes generated requirement bundles to external
// trackers.
package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v69/github"
	"golang.org/x/oauth2"

	"github.com/Pvilangaiah/RequirementsBot/internal/domain/requirements"
)

// DefaultLabels are attached to every exported issue.
var DefaultLabels = []string{"requirements", "user-story"}

// GitHubExporter files one issue per user story in a bundle.
type GitHubExporter struct {
	client *github.Client
	owner  string
	repo   string
	labels []string
	dryRun bool
}

// ExportResult describes one exported story.
type ExportResult struct {
	StoryID string
	Title   string
	URL     string // empty on dry runs
}

// NewGitHubExporter creates an exporter authenticated with the given token.
func NewGitHubExporter(ctx context.Context, token, owner, repo string) (*GitHubExporter, error) {
	if token == "" {
		return nil, fmt.Errorf("GitHub token not provided (set REQBOT_GITHUB_TOKEN or GITHUB_TOKEN)")
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	return NewGitHubExporterWithClient(github.NewClient(tc), owner, repo)
}

// NewGitHubExporterWithClient creates an exporter around an existing client,
// which lets tests point it at a fake API.
func NewGitHubExporterWithClient(client *github.Client, owner, repo string) (*GitHubExporter, error) {
	if owner == "" || repo == "" {
		return nil, fmt.Errorf("owner and repo are required")
	}
	return &GitHubExporter{
		client: client,
		owner:  owner,
		repo:   repo,
		labels: DefaultLabels,
	}, nil
}

// SetDryRun toggles dry-run mode, where issues are described but not filed.
func (e *GitHubExporter) SetDryRun(dryRun bool) {
	e.dryRun = dryRun
}

// SetLabels replaces the labels attached to exported issues.
func (e *GitHubExporter) SetLabels(labels []string) {
	e.labels = labels
}

// ExportStories files one issue per user story and returns what was created.
func (e *GitHubExporter) ExportStories(ctx context.Context, bundle *requirements.Bundle) ([]ExportResult, error) {
	if bundle == nil || len(bundle.UserStories) == 0 {
		return nil, fmt.Errorf("bundle contains no user stories")
	}

	results := make([]ExportResult, 0, len(bundle.UserStories))
	for _, story := range bundle.UserStories {
		title := issueTitle(story)
		if e.dryRun {
			results = append(results, ExportResult{StoryID: story.ID, Title: title})
			continue
		}

		labels := e.labels
		issue, _, err := e.client.Issues.Create(ctx, e.owner, e.repo, &github.IssueRequest{
			Title:  github.Ptr(title),
			Body:   github.Ptr(issueBody(story)),
			Labels: &labels,
		})
		if err != nil {
			return results, fmt.Errorf("create issue for %s: %w", story.ID, err)
		}

		results = append(results, ExportResult{
			StoryID: story.ID,
			Title:   title,
			URL:     issue.GetHTMLURL(),
		})
	}

	return results, nil
}

func issueTitle(story requirements.UserStory) string {
	if story.ID == "" {
		return story.IWant
	}
	return fmt.Sprintf("[%s] %s", story.ID, story.IWant)
}

func issueBody(story requirements.UserStory) string {
	var b strings.Builder

	fmt.Fprintf(&b, "**As a** %s\n", story.AsA)
	fmt.Fprintf(&b, "**I want** %s\n", story.IWant)
	fmt.Fprintf(&b, "**So that** %s\n", story.SoThat)

	if len(story.AcceptanceCriteria) > 0 {
		b.WriteString("\n### Acceptance criteria\n")
		for _, criterion := range story.AcceptanceCriteria {
			fmt.Fprintf(&b, "- [ ] %s\n", criterion)
		}
	}

	if story.Trace != nil && (len(story.Trace.UINodes) > 0 || len(story.Trace.Entities) > 0) {
		b.WriteString("\n### Trace\n")
		if len(story.Trace.UINodes) > 0 {
			fmt.Fprintf(&b, "UI nodes: %s\n", strings.Join(story.Trace.UINodes, ", "))
		}
		if len(story.Trace.Entities) > 0 {
			fmt.Fprintf(&b, "Entities: %s\n", strings.Join(story.Trace.Entities, ", "))
		}
	}

	return b.String()
}
