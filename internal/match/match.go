// Package match implements the stateless preference predicates and the
// priority scoring used for elevated alerts.
package match

import (
	"strings"

	"github.com/jobhuntbuddy/jobhunt-buddy/internal/jobs"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/prefs"
)

// remoteAliases widen the literal "remote" location preference: postings
// often phrase remote work differently.
var remoteAliases = []string{"remote", "work from home", "wfh", "virtual"}

// Priority score weights.
const (
	scorePriorityCompany  = 10
	scorePriorityCategory = 5
	scoreSalaryThreshold  = 3
	scoreRemote           = 1
)

// Matches reports whether the job satisfies every non-empty criterion of the
// preference set. An empty set matches every job.
func Matches(job *jobs.Job, set *prefs.PreferenceSet) bool {
	if set == nil {
		return true
	}

	if len(set.Categories) > 0 && !anyCategoryMatches(job.Title, set.Categories) {
		return false
	}

	if len(set.Locations) > 0 && !anyLocationMatches(job.Location, set.Locations) {
		return false
	}

	if len(set.Companies) > 0 && !anyCompanyMatches(job.Company, set.Companies) {
		return false
	}

	// Inferred fields only exclude when the inference produced a value; an
	// unknown level or arrangement never filters a job out.
	if len(set.ExperienceLevels) > 0 && job.ExperienceLevel != jobs.ExperienceUnset {
		if !prefs.Contains(set.ExperienceLevels, string(job.ExperienceLevel)) {
			return false
		}
	}

	if len(set.WorkArrangements) > 0 && job.WorkArrangement != jobs.ArrangementUnset {
		if !prefs.Contains(set.WorkArrangements, string(job.WorkArrangement)) {
			return false
		}
	}

	// Salary ranges are matched as literal strings. The numeric salary
	// bounds on the job deliberately play no part here.
	if len(set.SalaryRanges) > 0 && !prefs.Contains(set.SalaryRanges, job.SalaryRange) {
		return false
	}

	if set.PrioritySalaryMin > 0 && job.SalaryMin > 0 && job.SalaryMin < set.PrioritySalaryMin {
		return false
	}

	return true
}

// IsPriority reports whether the job satisfies any of the user's
// heightened-interest criteria.
func IsPriority(job *jobs.Job, set *prefs.PreferenceSet) bool {
	return anyPriorityConditionHolds(job, set)
}

// PriorityScore is additive and monotonic: satisfying one more priority
// condition never lowers the score.
func PriorityScore(job *jobs.Job, set *prefs.PreferenceSet) int {
	if set == nil {
		return 0
	}

	score := 0

	for _, company := range set.PriorityCompanies {
		if strings.EqualFold(company, job.Company) {
			score += scorePriorityCompany
			break
		}
	}

	for _, category := range set.PriorityCategories {
		if ContainsWholeWord(job.Title, category) {
			score += scorePriorityCategory
			break
		}
	}

	if set.PrioritySalaryMin > 0 && job.SalaryMin > 0 && job.SalaryMin >= set.PrioritySalaryMin {
		score += scoreSalaryThreshold
	}

	if job.WorkArrangement == jobs.ArrangementRemote {
		score += scoreRemote
	}

	return score
}

func anyPriorityConditionHolds(job *jobs.Job, set *prefs.PreferenceSet) bool {
	if set == nil {
		return false
	}

	for _, company := range set.PriorityCompanies {
		if strings.EqualFold(company, job.Company) {
			return true
		}
	}

	for _, category := range set.PriorityCategories {
		if ContainsWholeWord(job.Title, category) {
			return true
		}
	}

	return set.PrioritySalaryMin > 0 && job.SalaryMin > 0 && job.SalaryMin >= set.PrioritySalaryMin
}

func anyCategoryMatches(title string, categories []string) bool {
	for _, category := range categories {
		if ContainsWholeWord(title, category) {
			return true
		}
	}
	return false
}

func anyLocationMatches(location string, wanted []string) bool {
	lowered := strings.ToLower(location)
	for _, want := range wanted {
		want = strings.ToLower(want)
		if strings.Contains(lowered, want) {
			return true
		}
		if want == "remote" {
			for _, alias := range remoteAliases {
				if strings.Contains(lowered, alias) {
					return true
				}
			}
		}
	}
	return false
}

func anyCompanyMatches(company string, wanted []string) bool {
	lowered := strings.ToLower(company)
	for _, want := range wanted {
		if strings.Contains(lowered, strings.ToLower(want)) {
			return true
		}
	}
	return false
}

// ContainsWholeWord reports whether needle occurs in haystack
// case-insensitively with non-alphanumeric characters or string edges on
// both sides, so "backend" matches "Senior Backend Engineer" but not
// "Backendian Specialist".
func ContainsWholeWord(haystack, needle string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return false
	}
	lowered := strings.ToLower(haystack)

	for offset := 0; ; {
		idx := strings.Index(lowered[offset:], needle)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(needle)

		if boundaryBefore(lowered, start) && boundaryAfter(lowered, end) {
			return true
		}
		offset = start + 1
	}
}

func boundaryBefore(s string, idx int) bool {
	if idx == 0 {
		return true
	}
	return !isAlphanumeric(s[idx-1])
}

func boundaryAfter(s string, idx int) bool {
	if idx >= len(s) {
		return true
	}
	return !isAlphanumeric(s[idx])
}

func isAlphanumeric(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
