package prefs

import "testing"

func TestAddIsCaseInsensitiveNoOp(t *testing.T) {
	set := New("u1")
	set.AddCategory("Backend")
	set.AddCategory("backend")
	set.AddCategory("BACKEND")

	if len(set.Categories) != 1 {
		t.Fatalf("expected 1 category, got %v", set.Categories)
	}
	if set.Categories[0] != "Backend" {
		t.Fatalf("re-adding must keep the original casing, got %q", set.Categories[0])
	}
}

func TestAddIgnoresBlankValues(t *testing.T) {
	set := New("u1")
	set.AddLocation("   ")
	set.AddLocation("")

	if len(set.Locations) != 0 {
		t.Fatalf("expected no locations, got %v", set.Locations)
	}
}

func TestRemoveIsCaseInsensitive(t *testing.T) {
	set := New("u1")
	set.AddCategory("Backend")
	set.AddCategory("Frontend")

	set.RemoveCategory("BACKEND")

	if len(set.Categories) != 1 || set.Categories[0] != "Frontend" {
		t.Fatalf("expected only Frontend left, got %v", set.Categories)
	}
}

func TestUpdatedAtOnlyBumpsOnChange(t *testing.T) {
	set := New("u1")
	set.AddCategory("backend")
	stamp := set.UpdatedAt

	set.AddCategory("Backend")
	if !set.UpdatedAt.Equal(stamp) {
		t.Fatalf("no-op re-add must not bump UpdatedAt")
	}

	set.RemoveCategory("missing")
	if !set.UpdatedAt.Equal(stamp) {
		t.Fatalf("removing an absent value must not bump UpdatedAt")
	}
}

func TestIsEmpty(t *testing.T) {
	set := New("u1")
	if !set.IsEmpty() {
		t.Fatalf("fresh set must be empty")
	}

	set.AddCategory("backend")
	if set.IsEmpty() {
		t.Fatalf("set with a category is not empty")
	}

	threshold := New("u2")
	threshold.PrioritySalaryMin = 100
	if threshold.IsEmpty() {
		t.Fatalf("salary threshold counts as a criterion")
	}
}

func TestContains(t *testing.T) {
	set := []string{"Remote", "Berlin"}

	if !Contains(set, "remote") {
		t.Fatalf("membership must ignore case")
	}
	if Contains(set, "Paris") {
		t.Fatalf("Paris is not a member")
	}
}
