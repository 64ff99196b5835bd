// Package source defines the job-source collaborator contract. Site-specific
// extraction lives behind the Source interface; the engine only requires that
// one failing source does not take the others down with it.
package source

import (
	"context"

	"go.uber.org/zap"

	"github.com/jobhuntbuddy/jobhunt-buddy/internal/jobs"
)

// Source fetches the current postings of one company.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (*jobs.Jobs, error)
}

// FetchAll queries every source and collects postings per source name.
// Failures are gathered instead of aborting: the second return value maps the
// name of each failed source to its error.
func FetchAll(ctx context.Context, sources []Source, logger *zap.Logger) (map[string]*jobs.Jobs, map[string]error) {
	fetched := make(map[string]*jobs.Jobs, len(sources))
	failures := make(map[string]error)

	for _, src := range sources {
		found, err := src.Fetch(ctx)
		if err != nil {
			logger.Warn("fetching jobs failed",
				zap.String("source", src.Name()),
				zap.Error(err),
			)
			failures[src.Name()] = err
			continue
		}

		logger.Info("fetched jobs",
			zap.String("source", src.Name()),
			zap.Int("count", found.Len()),
		)
		fetched[src.Name()] = found
	}

	return fetched, failures
}
