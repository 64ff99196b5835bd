package source

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/jobhuntbuddy/jobhunt-buddy/internal/jobs"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip, deflate, br"

	defaultUserAgent = "jobhunt-buddy (github.com/jobhuntbuddy/jobhunt-buddy)"
)

// feedItem is the loosely typed shape of one posting in a JSON feed.
// Feeds disagree on casing and extra fields, so items are decoded generically
// and then mapped.
type feedItem struct {
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	URL         string   `json:"url"`
	Location    string   `json:"location"`
	Categories  []string `json:"categories"`
	Description string   `json:"description"`
	SalaryRange string   `json:"salary_range" mapstructure:"salary_range"`
	SalaryMin   int      `json:"salary_min" mapstructure:"salary_min"`
	SalaryMax   int      `json:"salary_max" mapstructure:"salary_max"`
}

type feedResponse struct {
	Items []map[string]any `json:"items"`
}

// Feed fetches postings from a company's JSON job feed.
type Feed struct {
	name   string
	url    string
	logger *zap.Logger

	HTTPClient *http.Client
	UserAgent  string
}

func NewFeed(name, url string, logger *zap.Logger) *Feed {
	return &Feed{
		name:   name,
		url:    url,
		logger: logger,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		UserAgent: defaultUserAgent,
	}
}

func (f *Feed) Name() string { return f.name }

func (f *Feed) Fetch(ctx context.Context) (*jobs.Jobs, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)
	req.Header.Set("User-Agent", f.UserAgent)

	f.logger.Debug("make request", zap.String("url", req.URL.String()))

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad status: %s", resp.Status)
	}

	var body io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gz.Close()
		body = gz
	}

	var response feedResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding feed: %w", err)
	}

	return f.buildJobs(response.Items)
}

func (f *Feed) buildJobs(items []map[string]any) (*jobs.Jobs, error) {
	found := &jobs.Jobs{}

	for _, raw := range items {
		var item feedItem
		cfg := &mapstructure.DecoderConfig{
			Result:           &item,
			TagName:          "json",
			WeaklyTypedInput: true,
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(raw); err != nil {
			f.logger.Debug("skipping malformed feed item", zap.Error(err))
			continue
		}

		link := item.Link
		if link == "" {
			link = item.URL
		}
		if item.Title == "" || link == "" {
			continue
		}

		job := jobs.New(item.Title, link, item.Location, f.name, item.Categories)
		job.Description = item.Description
		job.SalaryRange = item.SalaryRange
		job.SalaryMin = item.SalaryMin
		job.SalaryMax = item.SalaryMax

		found.Append(job)
	}

	return found, nil
}
