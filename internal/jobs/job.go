package jobs

import (
	"strings"
	"time"
)

// ExperienceLevel is inferred from the job title once, at construction.
type ExperienceLevel string

const (
	ExperienceUnset  ExperienceLevel = ""
	ExperienceJunior ExperienceLevel = "junior"
	ExperienceMid    ExperienceLevel = "mid level"
	ExperienceSenior ExperienceLevel = "senior"
)

// WorkArrangement is inferred from the job title and location once, at construction.
type WorkArrangement string

const (
	ArrangementUnset  WorkArrangement = ""
	ArrangementRemote WorkArrangement = "remote"
	ArrangementHybrid WorkArrangement = "hybrid"
	ArrangementOnsite WorkArrangement = "onsite"
)

// Tiers are checked in order. Order matters since keywords overlap:
// "senior frontend, mid-level team" must resolve to senior.
var experienceTiers = []struct {
	level    ExperienceLevel
	keywords []string
}{
	{ExperienceSenior, []string{"senior", "lead", "principal", "staff", "director", "vp", "cto"}},
	{ExperienceJunior, []string{"junior", "entry", "associate"}},
	{ExperienceMid, []string{"mid", "intermediate"}},
}

var arrangementTiers = []struct {
	arrangement WorkArrangement
	keywords    []string
}{
	{ArrangementRemote, []string{"remote", "work from home", "wfh", "virtual", "anywhere"}},
	{ArrangementHybrid, []string{"hybrid", "flexible", "part remote"}},
	{ArrangementOnsite, []string{"onsite", "in office", "on site", "in-person"}},
}

// Job is a single posting discovered at one of the external sources.
// The link doubles as the unique identifier for dedup purposes.
type Job struct {
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Location    string   `json:"location"`
	Company     string   `json:"company"`
	Categories  []string `json:"categories,omitempty"`
	Description string   `json:"description,omitempty"`
	SalaryRange string   `json:"salary_range,omitempty"`

	// SalaryMin and SalaryMax are thousands of currency units. Zero means unknown.
	SalaryMin int `json:"salary_min,omitempty"`
	SalaryMax int `json:"salary_max,omitempty"`

	ExperienceLevel ExperienceLevel `json:"experience_level,omitempty"`
	WorkArrangement WorkArrangement `json:"work_arrangement,omitempty"`

	PostedAt time.Time `json:"posted_at,omitempty"`
}

// New builds a Job and runs the one-time keyword inference for the
// experience level and work arrangement. Inferred fields are never
// recomputed, even if the title or location change afterwards.
func New(title, link, location, company string, categories []string) *Job {
	j := &Job{
		Title:      title,
		Link:       link,
		Location:   location,
		Company:    company,
		Categories: categories,
	}

	j.ExperienceLevel = inferExperience(title)
	j.WorkArrangement = inferArrangement(title, location)

	return j
}

func inferExperience(title string) ExperienceLevel {
	lowered := strings.ToLower(title)
	for _, tier := range experienceTiers {
		for _, keyword := range tier.keywords {
			if strings.Contains(lowered, keyword) {
				return tier.level
			}
		}
	}
	return ExperienceUnset
}

func inferArrangement(title, location string) WorkArrangement {
	lowered := strings.ToLower(title + " " + location)
	for _, tier := range arrangementTiers {
		for _, keyword := range tier.keywords {
			if strings.Contains(lowered, keyword) {
				return tier.arrangement
			}
		}
	}
	return ArrangementUnset
}
