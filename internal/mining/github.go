package mining

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/go-github/v57/github"
	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// IssueRecord is one cached issue together with its comment bodies.
type IssueRecord struct {
	Issue    *github.Issue `json:"issue"`
	Comments []string      `json:"comments"`
}

// Client fetches repository issues with pacing shared across workers.
type Client struct {
	gh      *github.Client
	limiter *rate.Limiter
}

func NewClient(ctx context.Context, token string) *Client {
	httpClient := oauth2.NewClient(ctx, nil)
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
	} else {
		log.Info("no GitHub token configured, using unauthenticated rate limits")
	}

	// Authenticated GitHub allows 5000 requests/hour; stay under it.
	return &Client{
		gh:      github.NewClient(httpClient),
		limiter: rate.NewLimiter(rate.Limit(1.2), 4),
	}
}

// ParseOwnerRepo accepts owner/repo or a full GitHub URL.
func ParseOwnerRepo(cell string) (string, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return "", false
	}
	if strings.HasPrefix(cell, "http") {
		_, rest, found := strings.Cut(cell, "github.com/")
		if !found {
			return "", false
		}
		parts := strings.Split(strings.Trim(rest, "/"), "/")
		if len(parts) < 2 {
			return "", false
		}
		return parts[0] + "/" + parts[1], true
	}
	if strings.Count(cell, "/") != 1 {
		return "", false
	}
	return cell, true
}

func splitOwnerRepo(ownerRepo string) (string, string, error) {
	owner, repo, found := strings.Cut(ownerRepo, "/")
	if !found || owner == "" || repo == "" {
		return "", "", fmt.Errorf("invalid repository identifier %q", ownerRepo)
	}
	return owner, repo, nil
}

// FetchIssues pulls every issue (not pull request) of a repository
// with its comments. maxIssues of zero means unbounded.
func (c *Client) FetchIssues(ctx context.Context, ownerRepo string, maxIssues int) ([]IssueRecord, error) {
	owner, repo, err := splitOwnerRepo(ownerRepo)
	if err != nil {
		return nil, err
	}

	opts := &github.IssueListByRepoOptions{
		State:       "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var records []IssueRecord
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		issues, resp, err := c.gh.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues for %s: %w", ownerRepo, err)
		}

		for _, issue := range issues {
			// The issues endpoint also returns pull requests.
			if issue.IsPullRequest() {
				continue
			}

			record := IssueRecord{Issue: issue}
			if issue.GetComments() > 0 {
				comments, err := c.fetchComments(ctx, owner, repo, issue.GetNumber())
				if err != nil {
					return nil, err
				}
				record.Comments = comments
			}

			records = append(records, record)
			if maxIssues > 0 && len(records) >= maxIssues {
				return records, nil
			}
		}

		if resp.NextPage == 0 {
			return records, nil
		}
		opts.Page = resp.NextPage
	}
}

func (c *Client) fetchComments(ctx context.Context, owner, repo string, number int) ([]string, error) {
	opts := &github.IssueListCommentsOptions{
		ListOptions: github.ListOptions{PerPage: 100},
	}

	var bodies []string
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		comments, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments for %s/%s#%d: %w", owner, repo, number, err)
		}

		for _, comment := range comments {
			bodies = append(bodies, comment.GetBody())
		}

		if resp.NextPage == 0 {
			return bodies, nil
		}
		opts.Page = resp.NextPage
	}
}
