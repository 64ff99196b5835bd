// Package prefs holds the per-user filter criteria and their persistence.
package prefs

import (
	"strings"
	"time"
)

// Frequency controls how often a user wants to be notified.
type Frequency string

const (
	FrequencyImmediate Frequency = "immediate"
	FrequencyDaily     Frequency = "daily"
	FrequencyWeekly    Frequency = "weekly"
)

// PreferenceSet is a user's saved or ad-hoc filter criteria. Every list is an
// unordered set with case-insensitive membership; an empty list is a wildcard.
type PreferenceSet struct {
	UserID string `json:"user_id"`

	Categories       []string `json:"categories"`
	Locations        []string `json:"locations"`
	Companies        []string `json:"companies"`
	ExperienceLevels []string `json:"experience_levels"`
	SalaryRanges     []string `json:"salary_ranges"`
	WorkArrangements []string `json:"work_arrangements"`

	PriorityCompanies  []string `json:"priority_companies"`
	PriorityCategories []string `json:"priority_categories"`
	// PrioritySalaryMin is thousands of currency units. Zero means unset.
	PrioritySalaryMin int `json:"priority_salary_min"`

	NotificationFrequency Frequency `json:"notification_frequency"`
	IsActive              bool      `json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns an empty, active PreferenceSet for the given user.
func New(userID string) *PreferenceSet {
	now := time.Now().UTC()
	return &PreferenceSet{
		UserID:                userID,
		NotificationFrequency: FrequencyImmediate,
		IsActive:              true,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}

// IsEmpty reports whether no criterion is set at all. An empty set matches
// every job.
func (p *PreferenceSet) IsEmpty() bool {
	return len(p.Categories) == 0 &&
		len(p.Locations) == 0 &&
		len(p.Companies) == 0 &&
		len(p.ExperienceLevels) == 0 &&
		len(p.SalaryRanges) == 0 &&
		len(p.WorkArrangements) == 0 &&
		p.PrioritySalaryMin == 0
}

func (p *PreferenceSet) AddCategory(v string)  { p.Categories = addValue(p.Categories, v, p) }
func (p *PreferenceSet) AddLocation(v string)  { p.Locations = addValue(p.Locations, v, p) }
func (p *PreferenceSet) AddCompany(v string)   { p.Companies = addValue(p.Companies, v, p) }

func (p *PreferenceSet) RemoveCategory(v string) { p.Categories = removeValue(p.Categories, v, p) }
func (p *PreferenceSet) RemoveLocation(v string) { p.Locations = removeValue(p.Locations, v, p) }
func (p *PreferenceSet) RemoveCompany(v string)  { p.Companies = removeValue(p.Companies, v, p) }

func (p *PreferenceSet) AddExperienceLevel(v string) {
	p.ExperienceLevels = addValue(p.ExperienceLevels, v, p)
}

func (p *PreferenceSet) AddWorkArrangement(v string) {
	p.WorkArrangements = addValue(p.WorkArrangements, v, p)
}

func (p *PreferenceSet) AddSalaryRange(v string) {
	p.SalaryRanges = addValue(p.SalaryRanges, v, p)
}

func (p *PreferenceSet) AddPriorityCompany(v string) {
	p.PriorityCompanies = addValue(p.PriorityCompanies, v, p)
}

func (p *PreferenceSet) AddPriorityCategory(v string) {
	p.PriorityCategories = addValue(p.PriorityCategories, v, p)
}

// Contains reports case-insensitive membership of v in the given set.
func Contains(set []string, v string) bool {
	for _, existing := range set {
		if strings.EqualFold(existing, v) {
			return true
		}
	}
	return false
}

// addValue appends v unless an equal value (case-insensitively) is already
// present; re-adding is a no-op and does not bump UpdatedAt.
func addValue(set []string, v string, p *PreferenceSet) []string {
	v = strings.TrimSpace(v)
	if v == "" || Contains(set, v) {
		return set
	}
	p.UpdatedAt = time.Now().UTC()
	return append(set, v)
}

func removeValue(set []string, v string, p *PreferenceSet) []string {
	out := set[:0]
	removed := false
	for _, existing := range set {
		if strings.EqualFold(existing, v) {
			removed = true
			continue
		}
		out = append(out, existing)
	}
	if removed {
		p.UpdatedAt = time.Now().UTC()
	}
	return out
}
