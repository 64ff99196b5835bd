// Package session implements the per-user guided conversation: a
// parametrized step-selection state machine plus the registry that owns one
// session per user.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jobhuntbuddy/jobhunt-buddy/internal/notify"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/prefs"
)

// Outcome tells the registry what to do with the session after an event.
type Outcome int

const (
	// OutcomeContinue keeps the session alive and waiting for more events.
	OutcomeContinue Outcome = iota
	// OutcomeAwaitingText keeps the session alive; the user's next plain
	// text message must be routed back in as CustomTextReceived.
	OutcomeAwaitingText
	// OutcomeDone means the flow completed; the registry drops the session.
	OutcomeDone
	// OutcomeCancelled means the user aborted; the registry drops the session.
	OutcomeCancelled
)

const (
	actionNext    = "next"
	actionCustom  = "custom"
	actionConfirm = "confirm"
	actionRestart = "restart"
	actionCancel  = "cancel"
)

// Session accumulates per-step selections for one user. All methods must be
// called under the registry's per-user serialization; a Session has no
// internal locking.
type Session struct {
	userID   string
	flow     *FlowSpec
	renderer notify.Renderer
	logger   *zap.Logger

	// step indexes flow.Steps; a value of len(flow.Steps) means the summary
	// is showing.
	step       int
	selections []map[int]struct{}
	custom     [][]string
	// awaitingStep is the step a pending free-text request belongs to, or -1.
	awaitingStep int

	prompts       []notify.PromptID
	summaryPrompt notify.PromptID

	createdAt time.Time
}

func newSession(userID string, flow *FlowSpec, renderer notify.Renderer, logger *zap.Logger, createdAt time.Time) *Session {
	s := &Session{
		userID:       userID,
		flow:         flow,
		renderer:     renderer,
		logger:       logger,
		awaitingStep: -1,
		createdAt:    createdAt,
	}
	s.reset()
	return s
}

func (s *Session) UserID() string       { return s.userID }
func (s *Session) Kind() Kind           { return s.flow.Kind }
func (s *Session) CreatedAt() time.Time { return s.createdAt }

func (s *Session) reset() {
	s.step = 0
	s.awaitingStep = -1
	s.selections = make([]map[int]struct{}, len(s.flow.Steps))
	s.custom = make([][]string, len(s.flow.Steps))
	s.prompts = make([]notify.PromptID, len(s.flow.Steps))
	s.summaryPrompt = ""
	for i := range s.selections {
		s.selections[i] = make(map[int]struct{})
	}
}

// start renders the first prompt.
func (s *Session) start(ctx context.Context) error {
	return s.renderCurrentStep(ctx)
}

// Handle applies one event. Events addressed to a prompt instance that is no
// longer current are silently ignored.
func (s *Session) Handle(ctx context.Context, event Event) (Outcome, error) {
	switch event := event.(type) {
	case Cancel:
		s.notice(ctx, "Session cancelled.")
		return OutcomeCancelled, nil

	case ToggleOption:
		if !s.onCurrentStep(event.Prompt) {
			return OutcomeContinue, nil
		}
		s.toggle(event.Option)
		return OutcomeContinue, nil

	case RequestCustomText:
		if !s.onCurrentStep(event.Prompt) || !s.flow.Steps[s.step].AllowCustom {
			return OutcomeContinue, nil
		}
		s.awaitingStep = s.step
		s.notice(ctx, "Type your custom values in the chat, comma-separated. Example: Berlin, Paris, Tokyo")
		return OutcomeAwaitingText, nil

	case CustomTextReceived:
		return s.acceptCustomText(ctx, event.Text)

	case AdvanceStep:
		if !s.onCurrentStep(event.Prompt) {
			return OutcomeContinue, nil
		}
		return s.advance(ctx)

	case Confirm:
		if !s.onSummary(event.Prompt) {
			return OutcomeContinue, nil
		}
		return s.confirm(ctx)

	case Restart:
		if !s.onSummary(event.Prompt) {
			return OutcomeContinue, nil
		}
		s.reset()
		s.notice(ctx, "Restarting. All selections cleared.")
		if err := s.renderCurrentStep(ctx); err != nil {
			return OutcomeContinue, err
		}
		return OutcomeContinue, nil

	default:
		return OutcomeContinue, fmt.Errorf("unhandled event type %T", event)
	}
}

// toggle flips membership of the option index in the current step's
// selection set; double-toggling restores the previous state.
func (s *Session) toggle(option int) {
	options := s.flow.Steps[s.step].Options
	if option < 0 || option >= len(options) {
		// A reaction symbol that maps to no option, e.g. a stray emoji.
		return
	}

	selected := s.selections[s.step]
	if _, ok := selected[option]; ok {
		delete(selected, option)
	} else {
		selected[option] = struct{}{}
	}
}

func (s *Session) acceptCustomText(ctx context.Context, text string) (Outcome, error) {
	if s.awaitingStep < 0 {
		return OutcomeContinue, fmt.Errorf("free text received with no pending request")
	}

	step := s.awaitingStep
	s.awaitingStep = -1

	values := prefs.SplitList(text)
	if len(values) == 0 {
		// Nothing usable; the field stays unset and the user may request
		// custom input again.
		s.notice(ctx, "No usable values found. Use the custom action to try again.")
		return OutcomeContinue, nil
	}

	for _, value := range values {
		if !prefs.Contains(s.custom[step], value) {
			s.custom[step] = append(s.custom[step], value)
		}
	}
	s.notice(ctx, fmt.Sprintf("Added custom values: %s", strings.Join(values, ", ")))

	return OutcomeContinue, nil
}

func (s *Session) advance(ctx context.Context) (Outcome, error) {
	if s.step+1 < len(s.flow.Steps) {
		s.step++
		if err := s.renderCurrentStep(ctx); err != nil {
			return OutcomeContinue, err
		}
		return OutcomeContinue, nil
	}

	if s.flow.Summary {
		s.step = len(s.flow.Steps)
		if err := s.renderSummary(ctx); err != nil {
			return OutcomeContinue, err
		}
		return OutcomeContinue, nil
	}

	// Single-purpose flows confirm straight from their only step.
	return s.confirm(ctx)
}

func (s *Session) confirm(ctx context.Context) (Outcome, error) {
	assembled := s.Preferences()

	if s.flow.RequireSelection && assembled.IsEmpty() {
		s.notice(ctx, "Select at least one option first.")
		return OutcomeContinue, nil
	}

	// The session is done either way: confirm reached its terminal action.
	// Collaborator failures are reported, not retried here.
	if err := s.flow.Confirm(ctx, assembled); err != nil {
		s.logger.Warn("confirm action failed",
			zap.String("user_id", s.userID),
			zap.String("kind", string(s.flow.Kind)),
			zap.Error(err),
		)
		s.notice(ctx, "Something went wrong completing your request.")
	}

	return OutcomeDone, nil
}

// Preferences assembles the accumulated selections, including custom values,
// into an ad-hoc PreferenceSet owned by the session's user.
func (s *Session) Preferences() *prefs.PreferenceSet {
	set := prefs.New(s.userID)

	for i, spec := range s.flow.Steps {
		add := set.AddCategory
		switch spec.Field {
		case FieldLocation:
			add = set.AddLocation
		case FieldCompany:
			add = set.AddCompany
		}

		for idx, option := range spec.Options {
			if _, ok := s.selections[i][idx]; ok {
				add(option)
			}
		}
		for _, value := range s.custom[i] {
			add(value)
		}
	}

	return set
}

func (s *Session) onCurrentStep(prompt notify.PromptID) bool {
	return s.step < len(s.flow.Steps) && prompt != "" && prompt == s.prompts[s.step]
}

func (s *Session) onSummary(prompt notify.PromptID) bool {
	return s.step == len(s.flow.Steps) && prompt != "" && prompt == s.summaryPrompt
}

func (s *Session) renderCurrentStep(ctx context.Context) error {
	spec := s.flow.Steps[s.step]

	actions := []string{actionNext, actionCancel}
	if spec.AllowCustom {
		actions = []string{actionCustom, actionNext, actionCancel}
	}

	id, err := s.renderer.RenderStep(ctx, s.userID, notify.Step{
		Title:       spec.Title,
		Description: spec.Description,
		Options:     spec.Options,
		AllowCustom: spec.AllowCustom,
		Actions:     actions,
	})
	if err != nil {
		return fmt.Errorf("rendering step %d: %w", s.step, err)
	}

	s.prompts[s.step] = id
	return nil
}

func (s *Session) renderSummary(ctx context.Context) error {
	assembled := s.Preferences()

	var lines []string
	if len(assembled.Categories) > 0 {
		lines = append(lines, "Categories: "+strings.Join(assembled.Categories, ", "))
	}
	if len(assembled.Locations) > 0 {
		lines = append(lines, "Locations: "+strings.Join(assembled.Locations, ", "))
	}
	if len(assembled.Companies) > 0 {
		lines = append(lines, "Companies: "+strings.Join(assembled.Companies, ", "))
	}
	if len(lines) == 0 {
		lines = append(lines, "No filters selected: every job will match.")
	}

	id, err := s.renderer.RenderStep(ctx, s.userID, notify.Step{
		Title:   "Summary: Your Job Search Filters",
		Options: lines,
		Actions: []string{actionConfirm, actionRestart, actionCancel},
	})
	if err != nil {
		return fmt.Errorf("rendering summary: %w", err)
	}

	s.summaryPrompt = id
	return nil
}

func (s *Session) notice(ctx context.Context, text string) {
	if err := s.renderer.Notice(ctx, s.userID, text); err != nil {
		s.logger.Debug("sending notice failed",
			zap.String("user_id", s.userID),
			zap.Error(err),
		)
	}
}
