package monitor

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/jobhuntbuddy/jobhunt-buddy/internal/jobs"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/notify"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/prefs"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/source"
)

type stubSource struct {
	name  string
	items []*jobs.Job
	err   error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(context.Context) (*jobs.Jobs, error) {
	if s.err != nil {
		return nil, s.err
	}
	found := &jobs.Jobs{}
	found.Append(s.items...)
	return found, nil
}

// memorySeen marks links without persistence.
type memorySeen struct {
	mu    sync.Mutex
	links map[string]struct{}
}

func newMemorySeen() *memorySeen {
	return &memorySeen{links: make(map[string]struct{})}
}

func (s *memorySeen) FirstSeen(_ context.Context, link string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.links[link]; ok {
		return false, nil
	}
	s.links[link] = struct{}{}
	return true, nil
}

type memoryPrefs struct {
	sets map[string]*prefs.PreferenceSet
}

func (s *memoryPrefs) Get(_ context.Context, userID string) (*prefs.PreferenceSet, error) {
	if set, ok := s.sets[userID]; ok {
		return set, nil
	}
	return prefs.New(userID), nil
}

func (s *memoryPrefs) Save(_ context.Context, set *prefs.PreferenceSet) error {
	s.sets[set.UserID] = set
	return nil
}

func (s *memoryPrefs) ActiveUsers(context.Context) ([]string, error) {
	users := make([]string, 0, len(s.sets))
	for id, set := range s.sets {
		if set.IsActive {
			users = append(users, id)
		}
	}
	return users, nil
}

type capturingDeliverer struct {
	mu      sync.Mutex
	results []*notify.Result
}

func (d *capturingDeliverer) Deliver(_ context.Context, result *notify.Result) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.results = append(d.results, result)
	return nil
}

func (d *capturingDeliverer) forUser(userID string) *notify.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, result := range d.results {
		if result.UserID == userID {
			return result
		}
	}
	return nil
}

func TestRunCheckDeliversNewJobsToMatchingUsers(t *testing.T) {
	ctx := context.Background()

	backend := jobs.New("Backend Engineer", "https://example.com/1", "Remote", "acme", nil)
	design := jobs.New("Product Designer", "https://example.com/2", "Berlin", "acme", nil)

	sources := []source.Source{&stubSource{name: "acme", items: []*jobs.Job{backend, design}}}

	backendFan := prefs.New("backend-fan")
	backendFan.AddCategory("backend")

	designFan := prefs.New("design-fan")
	designFan.AddCategory("designer")

	store := &memoryPrefs{sets: map[string]*prefs.PreferenceSet{
		"backend-fan": backendFan,
		"design-fan":  designFan,
	}}

	deliverer := &capturingDeliverer{}
	m := New(sources, newMemorySeen(), store, deliverer, zap.NewNop())

	if err := m.RunCheck(ctx); err != nil {
		t.Fatalf("running check: %v", err)
	}

	result := deliverer.forUser("backend-fan")
	if result == nil || len(result.Jobs) != 1 {
		t.Fatalf("expected one job for backend-fan, got %+v", result)
	}
	if result.Jobs[0].Job.Link != "https://example.com/1" {
		t.Fatalf("wrong job delivered: %s", result.Jobs[0].Job.Link)
	}

	if r := deliverer.forUser("design-fan"); r == nil || len(r.Jobs) != 1 {
		t.Fatalf("expected one job for design-fan, got %+v", r)
	}
}

func TestRunCheckSkipsSeenJobs(t *testing.T) {
	ctx := context.Background()

	job := jobs.New("Backend Engineer", "https://example.com/1", "", "acme", nil)
	sources := []source.Source{&stubSource{name: "acme", items: []*jobs.Job{job}}}

	fan := prefs.New("fan")
	fan.AddCategory("backend")
	store := &memoryPrefs{sets: map[string]*prefs.PreferenceSet{"fan": fan}}

	deliverer := &capturingDeliverer{}
	m := New(sources, newMemorySeen(), store, deliverer, zap.NewNop())

	if err := m.RunCheck(ctx); err != nil {
		t.Fatalf("first check: %v", err)
	}
	if err := m.RunCheck(ctx); err != nil {
		t.Fatalf("second check: %v", err)
	}

	// The job was new on the first cycle only.
	if len(deliverer.results) != 1 {
		t.Fatalf("expected 1 delivery, got %d", len(deliverer.results))
	}
}

// flakySeen errors for one specific link and delegates the rest.
type flakySeen struct {
	inner   *memorySeen
	badLink string
}

func (s *flakySeen) FirstSeen(ctx context.Context, link string) (bool, error) {
	if link == s.badLink {
		return false, fmt.Errorf("dedup backend unavailable")
	}
	return s.inner.FirstSeen(ctx, link)
}

func TestRunCheckSurvivesSeenStoreFailure(t *testing.T) {
	ctx := context.Background()

	broken := jobs.New("Backend Engineer", "https://example.com/1", "", "acme", nil)
	healthy := jobs.New("Backend Developer", "https://example.com/2", "", "acme", nil)
	sources := []source.Source{&stubSource{name: "acme", items: []*jobs.Job{broken, healthy}}}

	fan := prefs.New("fan")
	fan.AddCategory("backend")
	store := &memoryPrefs{sets: map[string]*prefs.PreferenceSet{"fan": fan}}

	deliverer := &capturingDeliverer{}
	seenStore := &flakySeen{inner: newMemorySeen(), badLink: "https://example.com/1"}
	m := New(sources, seenStore, store, deliverer, zap.NewNop())

	if err := m.RunCheck(ctx); err != nil {
		t.Fatalf("a dedup failure must not abort the cycle: %v", err)
	}

	result := deliverer.forUser("fan")
	if result == nil || len(result.Jobs) != 1 {
		t.Fatalf("expected the unaffected job to be delivered, got %+v", result)
	}
	if result.Jobs[0].Job.Link != "https://example.com/2" {
		t.Fatalf("wrong job delivered: %s", result.Jobs[0].Job.Link)
	}
}

func TestRunCheckReportsFailingSourceAlongsideResults(t *testing.T) {
	ctx := context.Background()

	job := jobs.New("Backend Engineer", "https://example.com/1", "", "acme", nil)
	sources := []source.Source{
		&stubSource{name: "acme", items: []*jobs.Job{job}},
		&stubSource{name: "globex", err: fmt.Errorf("connection refused")},
	}

	fan := prefs.New("fan")
	fan.AddCategory("backend")
	store := &memoryPrefs{sets: map[string]*prefs.PreferenceSet{"fan": fan}}

	deliverer := &capturingDeliverer{}
	m := New(sources, newMemorySeen(), store, deliverer, zap.NewNop())

	if err := m.RunCheck(ctx); err != nil {
		t.Fatalf("running check: %v", err)
	}

	result := deliverer.forUser("fan")
	if result == nil {
		t.Fatalf("expected a delivery")
	}
	if len(result.Jobs) != 1 {
		t.Fatalf("the failing source must not suppress healthy results")
	}
	if result.SourceErrors["globex"] == "" {
		t.Fatalf("expected the failure to be reported, got %v", result.SourceErrors)
	}
}

func TestSearchSortsByPriorityScore(t *testing.T) {
	ctx := context.Background()

	plain := jobs.New("Backend Engineer", "https://example.com/1", "Berlin", "globex", nil)
	prioritized := jobs.New("Backend Engineer", "https://example.com/2", "Berlin", "acme", nil)

	sources := []source.Source{&stubSource{name: "all", items: []*jobs.Job{plain, prioritized}}}

	filter := prefs.New("searcher")
	filter.AddCategory("backend")
	filter.AddPriorityCompany("acme")

	deliverer := &capturingDeliverer{}
	m := New(sources, newMemorySeen(), &memoryPrefs{sets: map[string]*prefs.PreferenceSet{}}, deliverer, zap.NewNop())

	if err := m.Search(ctx, filter); err != nil {
		t.Fatalf("searching: %v", err)
	}

	result := deliverer.forUser("searcher")
	if result == nil || len(result.Jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %+v", result)
	}
	if result.Jobs[0].Job.Link != "https://example.com/2" {
		t.Fatalf("priority job must sort first, got %s", result.Jobs[0].Job.Link)
	}
	if !result.Jobs[0].Priority || result.Jobs[0].Score != 10 {
		t.Fatalf("unexpected priority marking: %+v", result.Jobs[0])
	}
}

func TestSearchDoesNotTouchDedupState(t *testing.T) {
	ctx := context.Background()

	job := jobs.New("Backend Engineer", "https://example.com/1", "", "acme", nil)
	sources := []source.Source{&stubSource{name: "acme", items: []*jobs.Job{job}}}

	seenStore := newMemorySeen()
	fan := prefs.New("fan")
	fan.AddCategory("backend")
	store := &memoryPrefs{sets: map[string]*prefs.PreferenceSet{"fan": fan}}

	deliverer := &capturingDeliverer{}
	m := New(sources, seenStore, store, deliverer, zap.NewNop())

	filter := prefs.New("searcher")
	filter.AddCategory("backend")
	if err := m.Search(ctx, filter); err != nil {
		t.Fatalf("searching: %v", err)
	}

	// The job is still new to the monitoring loop afterwards.
	if err := m.RunCheck(ctx); err != nil {
		t.Fatalf("running check: %v", err)
	}
	if deliverer.forUser("fan") == nil {
		t.Fatalf("search must not consume first-seen state")
	}
}
