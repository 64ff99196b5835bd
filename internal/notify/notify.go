// Package notify is the boundary between the session engine and whatever
// chat platform or terminal actually talks to the user. The engine only
// relies on rendered prompts having a stable identity, so a reaction to a
// prompt that has since been replaced can be told apart from a live one.
package notify

import (
	"context"

	"github.com/jobhuntbuddy/jobhunt-buddy/internal/jobs"
)

// PromptID identifies one rendered prompt instance. Re-rendering the same
// step yields a new id; events carrying the old id are stale.
type PromptID string

// Step is a single selection prompt shown to the user.
type Step struct {
	Title       string
	Description string
	Options     []string
	// AllowCustom advertises the free-text extension on this step.
	AllowCustom bool
	// Actions are the non-option controls available, e.g. "next", "cancel".
	Actions []string
}

// Renderer displays prompts and short notices to one user.
type Renderer interface {
	RenderStep(ctx context.Context, userID string, step Step) (PromptID, error)
	Notice(ctx context.Context, userID, text string) error
}

// JobResult is one matched posting with its computed priority.
type JobResult struct {
	Job      *jobs.Job `json:"job"`
	Priority bool      `json:"priority"`
	Score    int       `json:"score"`
}

// Result is the outcome of a search or a monitoring cycle for one user.
type Result struct {
	UserID string      `json:"user_id"`
	Jobs   []JobResult `json:"jobs"`
	// SourceErrors maps a source name to its failure. One failing source
	// never suppresses results from the others.
	SourceErrors map[string]string `json:"source_errors,omitempty"`
}

// Deliverer hands finished results to the user. Delivery is best effort.
type Deliverer interface {
	Deliver(ctx context.Context, result *Result) error
}
