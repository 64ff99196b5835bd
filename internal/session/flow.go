package session

import (
	"context"
	"fmt"

	"github.com/jobhuntbuddy/jobhunt-buddy/internal/prefs"
)

// Kind tags which guided flow a session runs.
type Kind string

const (
	KindWizard      Kind = "wizard"
	KindSubscribe   Kind = "subscribe"
	KindUnsubscribe Kind = "unsubscribe"
	KindAddLocation Kind = "add-location"
	KindAddCompany  Kind = "add-company"
)

// Field names the preference dimension a step selects into.
type Field string

const (
	FieldCategory Field = "category"
	FieldLocation Field = "location"
	FieldCompany  Field = "company"
)

// MaxOptions bounds every option list: each option has to be addressable by
// one of a small number of discrete reaction symbols.
const MaxOptions = 10

// StepSpec describes one selection step of a flow.
type StepSpec struct {
	Field       Field
	Title       string
	Description string
	Options     []string
	AllowCustom bool
}

// ConfirmFunc runs the flow's terminal action with the assembled selections.
type ConfirmFunc func(ctx context.Context, set *prefs.PreferenceSet) error

// SearchFunc runs a job search with an ad-hoc filter and delivers the
// results; used by the wizard's confirm action.
type SearchFunc func(ctx context.Context, filter *prefs.PreferenceSet) error

// FlowSpec parametrizes the step-selection automaton. The wizard and the
// four single-purpose flows only differ in their steps, whether a summary is
// shown and what confirm does.
type FlowSpec struct {
	Kind  Kind
	Steps []StepSpec
	// Summary inserts a summary step with confirm/restart/cancel between the
	// last selection step and the terminal action.
	Summary bool
	// RequireSelection refuses to confirm while nothing is selected.
	RequireSelection bool
	Confirm          ConfirmFunc
}

// WizardFlow is the canonical multi-step job-search flow: categories,
// locations (with free-text extension), companies, then a summary.
func WizardFlow(categories, locations, companies []string, search SearchFunc) *FlowSpec {
	return &FlowSpec{
		Kind: KindWizard,
		Steps: []StepSpec{
			{
				Field:       FieldCategory,
				Title:       "Step 1 of 3: Select Job Categories",
				Description: "Select any number of categories.",
				Options:     capOptions(categories),
			},
			{
				Field:       FieldLocation,
				Title:       "Step 2 of 3: Select Job Locations",
				Description: "Select any number of locations, or add your own.",
				Options:     capOptions(locations),
				AllowCustom: true,
			},
			{
				Field:       FieldCompany,
				Title:       "Step 3 of 3: Select Companies",
				Description: "Select any number of companies.",
				Options:     capOptions(companies),
			},
		},
		Summary: true,
		Confirm: func(ctx context.Context, set *prefs.PreferenceSet) error {
			return search(ctx, set)
		},
	}
}

// SubscribeFlow adds the selected categories to the user's stored
// preferences.
func SubscribeFlow(categories []string, store prefs.Store) *FlowSpec {
	return &FlowSpec{
		Kind: KindSubscribe,
		Steps: []StepSpec{{
			Field:       FieldCategory,
			Title:       "Subscribe: Select Job Categories",
			Description: "Select the categories to subscribe to.",
			Options:     capOptions(categories),
		}},
		RequireSelection: true,
		Confirm: func(ctx context.Context, set *prefs.PreferenceSet) error {
			return updateStored(ctx, store, set, func(stored *prefs.PreferenceSet) {
				for _, category := range set.Categories {
					stored.AddCategory(category)
				}
			})
		},
	}
}

// UnsubscribeFlow removes selected categories from the user's stored
// preferences. The option universe is the user's current subscription list.
func UnsubscribeFlow(current []string, store prefs.Store) *FlowSpec {
	return &FlowSpec{
		Kind: KindUnsubscribe,
		Steps: []StepSpec{{
			Field:       FieldCategory,
			Title:       "Unsubscribe: Select Categories",
			Description: "Select the categories to unsubscribe from.",
			Options:     capOptions(current),
		}},
		RequireSelection: true,
		Confirm: func(ctx context.Context, set *prefs.PreferenceSet) error {
			return updateStored(ctx, store, set, func(stored *prefs.PreferenceSet) {
				for _, category := range set.Categories {
					stored.RemoveCategory(category)
				}
			})
		},
	}
}

// AddLocationFlow adds selected and custom locations to the user's stored
// preferences.
func AddLocationFlow(locations []string, store prefs.Store) *FlowSpec {
	return &FlowSpec{
		Kind: KindAddLocation,
		Steps: []StepSpec{{
			Field:       FieldLocation,
			Title:       "Add Location: Select Locations",
			Description: "Select locations to add, or type your own.",
			Options:     capOptions(locations),
			AllowCustom: true,
		}},
		RequireSelection: true,
		Confirm: func(ctx context.Context, set *prefs.PreferenceSet) error {
			return updateStored(ctx, store, set, func(stored *prefs.PreferenceSet) {
				for _, location := range set.Locations {
					stored.AddLocation(location)
				}
			})
		},
	}
}

// AddCompanyFlow adds selected companies to the user's stored preferences.
func AddCompanyFlow(companies []string, store prefs.Store) *FlowSpec {
	return &FlowSpec{
		Kind: KindAddCompany,
		Steps: []StepSpec{{
			Field:       FieldCompany,
			Title:       "Add Company: Select Companies",
			Description: "Select the companies to add.",
			Options:     capOptions(companies),
		}},
		RequireSelection: true,
		Confirm: func(ctx context.Context, set *prefs.PreferenceSet) error {
			return updateStored(ctx, store, set, func(stored *prefs.PreferenceSet) {
				for _, company := range set.Companies {
					stored.AddCompany(company)
				}
			})
		},
	}
}

// updateStored applies a mutation to the user's persisted set and saves it.
func updateStored(ctx context.Context, store prefs.Store, set *prefs.PreferenceSet, apply func(*prefs.PreferenceSet)) error {
	stored, err := store.Get(ctx, set.UserID)
	if err != nil {
		return fmt.Errorf("loading preferences: %w", err)
	}

	apply(stored)

	if err := store.Save(ctx, stored); err != nil {
		return fmt.Errorf("saving preferences: %w", err)
	}
	return nil
}

func capOptions(options []string) []string {
	if len(options) > MaxOptions {
		return options[:MaxOptions]
	}
	return options
}
