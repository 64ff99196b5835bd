package match

import (
	"testing"

	"github.com/jobhuntbuddy/jobhunt-buddy/internal/jobs"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/prefs"
)

func TestContainsWholeWord(t *testing.T) {
	cases := []struct {
		haystack string
		needle   string
		want     bool
	}{
		{"Backend Engineer", "backend", true},
		{"Senior Backend Engineer II", "backend", true},
		{"Backendian Specialist", "backend", false},
		{"backend", "backend", true},
		{"(backend)", "backend", true},
		{"front-end/backend dev", "backend", true},
		{"Engineer", "backend", false},
		{"Backend Engineer", "", false},
	}

	for _, tc := range cases {
		if got := ContainsWholeWord(tc.haystack, tc.needle); got != tc.want {
			t.Fatalf("ContainsWholeWord(%q, %q) = %v, want %v", tc.haystack, tc.needle, got, tc.want)
		}
	}
}

func TestEmptySetMatchesEverything(t *testing.T) {
	job := jobs.New("Backend Engineer", "https://example.com/1", "Berlin", "Acme", nil)

	if !Matches(job, nil) {
		t.Fatalf("nil set must match every job")
	}
	if !Matches(job, prefs.New("u1")) {
		t.Fatalf("empty set must match every job")
	}
}

func TestCategoryMatchesAgainstTitle(t *testing.T) {
	set := prefs.New("u1")
	set.AddCategory("backend")

	if !Matches(jobs.New("Senior Backend Engineer", "l", "", "Acme", nil), set) {
		t.Fatalf("expected whole-word category match")
	}
	if Matches(jobs.New("Backendian Specialist", "l", "", "Acme", nil), set) {
		t.Fatalf("substring inside a longer word must not match")
	}
}

func TestLocationRemoteAliases(t *testing.T) {
	set := prefs.New("u1")
	set.AddLocation("Remote")

	for _, location := range []string{"Remote - US", "Work From Home - US", "WFH only", "Virtual"} {
		job := jobs.New("Backend Engineer", "l", location, "Acme", nil)
		if !Matches(job, set) {
			t.Fatalf("location %q should satisfy the remote preference", location)
		}
	}

	if Matches(jobs.New("Backend Engineer", "l", "Berlin", "Acme", nil), set) {
		t.Fatalf("Berlin must not satisfy the remote preference")
	}
}

func TestAliasesOnlyApplyToRemotePreference(t *testing.T) {
	set := prefs.New("u1")
	set.AddLocation("Berlin")

	if Matches(jobs.New("Backend Engineer", "l", "Work From Home", "Acme", nil), set) {
		t.Fatalf("remote aliases must not widen non-remote preferences")
	}
}

func TestInferredFieldsAreVacuousWhenUnset(t *testing.T) {
	set := prefs.New("u1")
	set.AddExperienceLevel("senior")

	// No level keyword in the title: the preference cannot exclude it.
	plain := jobs.New("Backend Engineer", "l", "", "Acme", nil)
	if !Matches(plain, set) {
		t.Fatalf("job with unknown level must pass the level criterion")
	}

	junior := jobs.New("Junior Backend Engineer", "l", "", "Acme", nil)
	if Matches(junior, set) {
		t.Fatalf("junior job must fail a senior-only preference")
	}
}

func TestSalaryRangeIsLiteral(t *testing.T) {
	set := prefs.New("u1")
	set.AddSalaryRange("100k-150k")

	job := jobs.New("Backend Engineer", "l", "", "Acme", nil)
	job.SalaryRange = "100k-150k"
	if !Matches(job, set) {
		t.Fatalf("identical salary range string must match")
	}

	// Numerically contained but textually different: no match.
	job.SalaryRange = "110k-140k"
	if Matches(job, set) {
		t.Fatalf("salary ranges compare as strings, not numbers")
	}
}

func TestMinimumSalaryGate(t *testing.T) {
	set := prefs.New("u1")
	set.PrioritySalaryMin = 120

	low := jobs.New("Backend Engineer", "l", "", "Acme", nil)
	low.SalaryMin = 100
	if Matches(low, set) {
		t.Fatalf("job below the salary threshold must not match")
	}

	high := jobs.New("Backend Engineer", "l", "", "Acme", nil)
	high.SalaryMin = 150
	if !Matches(high, set) {
		t.Fatalf("job above the salary threshold must match")
	}

	// Unknown salary never excludes.
	unknown := jobs.New("Backend Engineer", "l", "", "Acme", nil)
	if !Matches(unknown, set) {
		t.Fatalf("job with unknown salary must pass the threshold")
	}
}

func TestPriorityScoreWeights(t *testing.T) {
	set := prefs.New("u1")
	set.AddPriorityCompany("Acme")
	set.AddPriorityCategory("backend")
	set.PrioritySalaryMin = 120

	job := jobs.New("Senior Backend Engineer", "l", "Remote", "Acme", nil)
	job.SalaryMin = 150

	// 10 company + 5 category + 3 salary + 1 remote.
	if got := PriorityScore(job, set); got != 19 {
		t.Fatalf("expected score 19, got %d", got)
	}
	if !IsPriority(job, set) {
		t.Fatalf("expected priority job")
	}
}

func TestPriorityCompanyWithSalaryThreshold(t *testing.T) {
	set := prefs.New("u1")
	set.AddPriorityCompany("Acme")
	set.PrioritySalaryMin = 120

	job := jobs.New("Engineer", "l", "Berlin", "Acme", nil)
	job.SalaryMin = 150

	if !IsPriority(job, set) {
		t.Fatalf("expected priority job")
	}
	if got := PriorityScore(job, set); got != 13 {
		t.Fatalf("expected score 13, got %d", got)
	}
}

func TestRemoteAloneIsNotPriority(t *testing.T) {
	set := prefs.New("u1")
	set.AddPriorityCompany("Globex")

	job := jobs.New("Backend Engineer", "l", "Remote", "Acme", nil)

	if got := PriorityScore(job, set); got != 1 {
		t.Fatalf("expected score 1 for the remote bonus, got %d", got)
	}
	if IsPriority(job, set) {
		t.Fatalf("the remote bonus alone must not mark a job priority")
	}
}

func TestPriorityScoreMonotonic(t *testing.T) {
	set := prefs.New("u1")
	set.AddPriorityCompany("Acme")

	job := jobs.New("Backend Engineer", "l", "", "Acme", nil)
	before := PriorityScore(job, set)

	set.AddPriorityCategory("backend")
	after := PriorityScore(job, set)

	if after < before {
		t.Fatalf("adding a satisfied condition lowered the score: %d -> %d", before, after)
	}
}

func TestRepeatedPriorityValuesCountOnce(t *testing.T) {
	set := prefs.New("u1")
	set.AddPriorityCategory("backend")
	set.AddPriorityCategory("engineer")

	job := jobs.New("Backend Engineer", "l", "", "Acme", nil)

	// Both categories hit the title, but the category bonus applies once.
	if got := PriorityScore(job, set); got != 5 {
		t.Fatalf("expected score 5, got %d", got)
	}
}
