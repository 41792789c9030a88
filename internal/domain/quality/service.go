package quality

import "context"

// QualityService reports malformed punch sequences. It is read-only.
type QualityService interface {
	ListIssues(ctx context.Context, filter IssueFilter) (IssuesResponse, error)
}
