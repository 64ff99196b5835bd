package notify

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync/atomic"
)

// Console renders prompts and delivers results to a terminal. It backs the
// wizard command and doubles as the fallback deliverer when no message bus
// is configured.
type Console struct {
	out  io.Writer
	next atomic.Uint64
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) RenderStep(_ context.Context, _ string, step Step) (PromptID, error) {
	id := PromptID(fmt.Sprintf("prompt-%d", c.next.Add(1)))

	fmt.Fprintf(c.out, "\n%s\n", step.Title)
	if step.Description != "" {
		fmt.Fprintln(c.out, step.Description)
	}
	for i, option := range step.Options {
		fmt.Fprintf(c.out, "  %2d. %s\n", i+1, option)
	}
	if step.AllowCustom {
		fmt.Fprintln(c.out, "  (custom values can be typed in, comma-separated)")
	}
	if len(step.Actions) > 0 {
		fmt.Fprintf(c.out, "actions: %s\n", strings.Join(step.Actions, ", "))
	}

	return id, nil
}

func (c *Console) Notice(_ context.Context, _ string, text string) error {
	_, err := fmt.Fprintln(c.out, text)
	return err
}

func (c *Console) Deliver(_ context.Context, result *Result) error {
	if len(result.Jobs) == 0 {
		fmt.Fprintln(c.out, "no matching jobs found")
	}

	for _, item := range result.Jobs {
		marker := " "
		if item.Priority {
			marker = "!"
		}
		fmt.Fprintf(c.out, "%s %s / %s / %s / %s\n",
			marker, item.Job.Company, item.Job.Title, item.Job.Location, item.Job.Link)
	}

	for source, message := range result.SourceErrors {
		fmt.Fprintf(c.out, "source %s failed: %s\n", source, message)
	}

	return nil
}
