package session

import "github.com/jobhuntbuddy/jobhunt-buddy/internal/notify"

// Event is the closed set of inputs a session can receive. Reaction-style
// events carry the id of the prompt instance they were made on, so a
// reaction left on a prompt that has since been replaced is recognizably
// stale.
type Event interface {
	isEvent()
}

// ToggleOption flips membership of the option at the given index in the
// current step's selection set.
type ToggleOption struct {
	Prompt notify.PromptID
	Option int
}

// AdvanceStep moves to the next step. On the last selection step of a flow
// without a summary it acts as the confirm action.
type AdvanceStep struct {
	Prompt notify.PromptID
}

// RequestCustomText suspends the current step until the user's next plain
// text message. Only honored on steps that allow custom values.
type RequestCustomText struct {
	Prompt notify.PromptID
}

// CustomTextReceived carries the free-text message that resolves a pending
// RequestCustomText.
type CustomTextReceived struct {
	Text string
}

// Confirm finishes the flow from the summary prompt.
type Confirm struct {
	Prompt notify.PromptID
}

// Restart clears all selections and returns to the first step. The session
// itself survives.
type Restart struct {
	Prompt notify.PromptID
}

// Cancel destroys the session with no further side effects.
type Cancel struct{}

func (ToggleOption) isEvent()       {}
func (AdvanceStep) isEvent()        {}
func (RequestCustomText) isEvent()  {}
func (CustomTextReceived) isEvent() {}
func (Confirm) isEvent()            {}
func (Restart) isEvent()            {}
func (Cancel) isEvent()             {}
