// Package monitor runs the periodic job checks: fetch from every source,
// drop already-seen postings, match against each active user's preferences
// and hand results to the deliverer.
package monitor

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/jobhuntbuddy/jobhunt-buddy/internal/jobs"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/match"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/notify"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/prefs"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/seen"
	"github.com/jobhuntbuddy/jobhunt-buddy/internal/source"
)

type Monitor struct {
	sources   []source.Source
	seen      seen.Store
	prefs     prefs.Store
	deliverer notify.Deliverer
	logger    *zap.Logger
}

func New(sources []source.Source, seenStore seen.Store, prefStore prefs.Store, deliverer notify.Deliverer, logger *zap.Logger) *Monitor {
	return &Monitor{
		sources:   sources,
		seen:      seenStore,
		prefs:     prefStore,
		deliverer: deliverer,
		logger:    logger,
	}
}

// RunCheck fetches from every source, keeps only postings never seen before
// and delivers per-user results to every active user. A failing source is
// reported alongside the results of the healthy ones.
func (m *Monitor) RunCheck(ctx context.Context) error {
	fetched, failures := source.FetchAll(ctx, m.sources, m.logger)

	fresh := &jobs.Jobs{}
	for _, found := range fetched {
		for _, job := range found.Items {
			first, err := m.seen.FirstSeen(ctx, job.Link)
			if err != nil {
				// Dedup trouble must not take the whole cycle down; the job
				// is skipped and will be retried next cycle.
				m.logger.Warn("checking seen state failed",
					zap.String("link", job.Link),
					zap.Error(err),
				)
				continue
			}
			if first {
				fresh.Append(job)
			}
		}
	}

	m.logger.Info("job check complete",
		zap.Int("sources", len(m.sources)),
		zap.Int("failed_sources", len(failures)),
		zap.Int("new_jobs", fresh.Len()),
	)

	users, err := m.prefs.ActiveUsers(ctx)
	if err != nil {
		return fmt.Errorf("listing active users: %w", err)
	}

	for _, userID := range users {
		set, err := m.prefs.Get(ctx, userID)
		if err != nil {
			m.logger.Warn("loading preferences failed",
				zap.String("user_id", userID),
				zap.Error(err),
			)
			continue
		}

		result := buildResult(userID, fresh, set, failures)
		if len(result.Jobs) == 0 && len(result.SourceErrors) == 0 {
			continue
		}

		if err := m.deliverer.Deliver(ctx, result); err != nil {
			m.logger.Warn("delivering results failed",
				zap.String("user_id", userID),
				zap.Error(err),
			)
		}
	}

	return nil
}

// Search runs a one-off fetch across all sources, filters with the given
// ad-hoc preferences and delivers a single result. Used by the wizard's
// confirm action and the check command; dedup state is not touched.
func (m *Monitor) Search(ctx context.Context, filter *prefs.PreferenceSet) error {
	fetched, failures := source.FetchAll(ctx, m.sources, m.logger)

	all := &jobs.Jobs{}
	for _, found := range fetched {
		all.Append(found.Items...)
	}

	result := buildResult(filter.UserID, all, filter, failures)
	return m.deliverer.Deliver(ctx, result)
}

// Dump returns every current posting grouped by source, filtered when a
// preference set is given.
func (m *Monitor) Dump(ctx context.Context, filter *prefs.PreferenceSet) (map[string]*jobs.Jobs, map[string]error) {
	fetched, failures := source.FetchAll(ctx, m.sources, m.logger)

	if filter == nil {
		return fetched, failures
	}

	filtered := make(map[string]*jobs.Jobs, len(fetched))
	for name, found := range fetched {
		kept := found.Filter(func(job *jobs.Job) bool {
			return match.Matches(job, filter)
		})
		if kept.Len() > 0 {
			filtered[name] = kept
		}
	}
	return filtered, failures
}

// buildResult filters the postings for one user and sorts matches by
// priority score, highest first.
func buildResult(userID string, all *jobs.Jobs, set *prefs.PreferenceSet, failures map[string]error) *notify.Result {
	result := &notify.Result{UserID: userID}

	for _, job := range all.Items {
		if !match.Matches(job, set) {
			continue
		}
		result.Jobs = append(result.Jobs, notify.JobResult{
			Job:      job,
			Priority: match.IsPriority(job, set),
			Score:    match.PriorityScore(job, set),
		})
	}

	sort.SliceStable(result.Jobs, func(i, j int) bool {
		return result.Jobs[i].Score > result.Jobs[j].Score
	})

	if len(failures) > 0 {
		result.SourceErrors = make(map[string]string, len(failures))
		for name, err := range failures {
			result.SourceErrors[name] = err.Error()
		}
	}

	return result
}
