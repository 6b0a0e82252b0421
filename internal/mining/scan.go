package mining

import (
	"sort"
	"strings"

	"github.com/portability-study/portbench/internal/types"
)

// scanMatch is the enrichment produced when an issue passes the
// keyword and proximity filters.
type scanMatch struct {
	Source   string
	Keyword  string
	Title    string
	Body     string
	Comments []string
}

// ScanIssue applies two-phase filtering: title and body first, then
// comments only when the fast path did not already pass. Returns nil
// when the issue is not a portability candidate.
func ScanIssue(record IssueRecord) *scanMatch {
	issue := record.Issue
	if issue == nil {
		return nil
	}

	title := issue.GetTitle()
	body := issue.GetBody()

	phase1 := [][2]string{{"title", title}, {"body", body}}
	if match := scanBlobs(phase1); match != nil {
		match.Title = title
		match.Body = body
		return match
	}

	blobs := phase1
	for _, comment := range record.Comments {
		blobs = append(blobs, [2]string{"comment", comment})
	}
	match := scanBlobs(blobs)
	if match == nil {
		return nil
	}

	match.Title = title
	match.Body = body
	match.Comments = record.Comments
	return match
}

func scanBlobs(blobs [][2]string) *scanMatch {
	aggregated := make(map[string][]string)
	var sources []string
	proximityOK := false

	for _, blob := range blobs {
		source, text := blob[0], blob[1]
		hits := MatchConcepts(text)
		if len(hits) > 0 {
			for bucket, keywords := range hits {
				aggregated[bucket] = append(aggregated[bucket], keywords...)
			}
			sources = append(sources, source)
		}
		if !proximityOK && SentenceCooccurrence(text) {
			proximityOK = true
		}
	}

	if len(aggregated) == 0 || !proximityOK || !HasOSAndFix(aggregated) {
		return nil
	}

	return &scanMatch{
		Source:  strings.Join(dedupSources(sources), "+"),
		Keyword: FormatConceptHits(aggregated),
	}
}

func dedupSources(sources []string) []string {
	out := dedup(sources)
	sort.Strings(out)
	if len(out) == 0 {
		out = []string{"title"}
	}
	return out
}

// toMinedIssue builds the output row for a matched issue.
func toMinedIssue(ownerRepo string, record IssueRecord, match *scanMatch) types.MinedIssue {
	issue := record.Issue

	var labels []string
	for _, label := range issue.Labels {
		labels = append(labels, label.GetName())
	}

	summary := strings.TrimSpace(issue.GetTitle())
	if len(summary) > 180 {
		summary = summary[:180]
	}

	return types.MinedIssue{
		Repository: ownerRepo,
		Type:       "Issue",
		Source:     match.Source,
		Keyword:    match.Keyword,
		Summary:    summary,
		Link:       issue.GetHTMLURL(),
		Status:     "To review",
		Number:     issue.GetNumber(),
		CreatedAt:  issue.GetCreatedAt().Time,
		Author:     issue.GetUser().GetLogin(),
		Labels:     strings.Join(labels, ","),
	}
}
