// Package reports reads push response statistics from the Airship
// reporting API.
package reports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kart-io/uapush/pkg/airship"
	uaerrors "github.com/kart-io/uapush/pkg/errors"
	"github.com/kart-io/uapush/pkg/observability"
)

const (
	responsesPath = "/reports/responses/"

	// TimeFormat is the layout of the start and end query parameters.
	TimeFormat = "2006-01-02 15:04:05"
)

// Option configures a report reader
type Option func(*reader)

type reader struct {
	client    *airship.Client
	cache     Cache
	ttl       time.Duration
	telemetry *observability.Provider
}

// WithCache serves repeated lookups from c for ttl
func WithCache(c Cache, ttl time.Duration) Option {
	return func(r *reader) {
		r.cache = c
		r.ttl = ttl
	}
}

// WithTelemetry records cache hits and misses through p
func WithTelemetry(p *observability.Provider) Option {
	return func(r *reader) { r.telemetry = p }
}

func newReader(client *airship.Client, opts []Option) reader {
	r := reader{client: client, telemetry: observability.Noop()}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r *reader) get(ctx context.Context, rawURL string) (map[string]any, error) {
	resp, err := r.client.Request(ctx, http.MethodGet, rawURL, nil, "", airship.DefaultVersion)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, uaerrors.Wrap(err, uaerrors.ErrDeserializationFailed, "failed to decode report").
			WithStatus(resp.StatusCode)
	}
	return out, nil
}

// IndividualResponseStats returns the response statistics of single pushes.
type IndividualResponseStats struct {
	reader
}

// NewIndividualResponseStats creates a statistics reader
func NewIndividualResponseStats(client *airship.Client, opts ...Option) *IndividualResponseStats {
	return &IndividualResponseStats{reader: newReader(client, opts)}
}

// Get returns the statistics of pushID.
func (s *IndividualResponseStats) Get(ctx context.Context, pushID string) (map[string]any, error) {
	pushID = normalizePushID(pushID)
	if pushID == "" {
		return nil, uaerrors.NewMissingFieldError("reports", "push_id", "push id is required")
	}

	if stats, ok := s.cached(ctx, pushID); ok {
		return stats, nil
	}

	stats, err := s.get(ctx, s.client.URL(responsesPath+url.PathEscape(pushID)))
	if err != nil {
		return nil, err
	}
	s.store(ctx, pushID, stats)
	return stats, nil
}

func (s *IndividualResponseStats) cached(ctx context.Context, pushID string) (map[string]any, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, ok, err := s.cache.Get(ctx, pushID)
	if err != nil {
		s.client.Logger().Warn("report cache read failed", "push_id", pushID, "error", err)
		return nil, false
	}
	var stats map[string]any
	if ok {
		if err := json.Unmarshal(data, &stats); err != nil {
			s.client.Logger().Warn("discarding unreadable cache entry", "push_id", pushID, "error", err)
			_ = s.cache.Delete(ctx, pushID)
			ok = false
		}
	}
	s.telemetry.RecordCacheLookup(ctx, s.cache.Backend(), ok)
	return stats, ok
}

func (s *IndividualResponseStats) store(ctx context.Context, pushID string, stats map[string]any) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, pushID, data, s.ttl); err != nil {
		s.client.Logger().Warn("report cache write failed", "push_id", pushID, "error", err)
	}
}

// normalizePushID trims id and canonicalises it when it is a UUID.
func normalizePushID(id string) string {
	id = strings.TrimSpace(id)
	if parsed, err := uuid.Parse(id); err == nil {
		return parsed.String()
	}
	return id
}

// ResponseListing lists pushes sent within a time window.
type ResponseListing struct {
	reader
}

// NewResponseListing creates a listing reader
func NewResponseListing(client *airship.Client, opts ...Option) *ResponseListing {
	return &ResponseListing{reader: newReader(client, opts)}
}

// Get returns one page of pushes sent between start and end. limit and
// startID are omitted from the query when zero.
func (l *ResponseListing) Get(ctx context.Context, start, end time.Time, limit int, startID string) (map[string]any, error) {
	if start.IsZero() || end.IsZero() {
		return nil, uaerrors.NewMissingFieldError("reports", "start", "start and end dates cannot be empty")
	}
	if end.Before(start) {
		return nil, uaerrors.NewValueError("reports", "end", "end date must not be before start date", end)
	}
	if limit < 0 {
		return nil, uaerrors.NewValueError("reports", "limit", "limit must not be negative", limit)
	}

	params := url.Values{}
	params.Set("start", start.Format(TimeFormat))
	params.Set("end", end.Format(TimeFormat))
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if startID != "" {
		params.Set("push_id_start", startID)
	}
	return l.get(ctx, l.client.URL(responsesPath+"list?"+params.Encode()))
}

// Next follows the next_page link of a listing page. ok is false on the
// last page. Relative links are resolved against the client's base URL.
func (l *ResponseListing) Next(ctx context.Context, page map[string]any) (next map[string]any, ok bool, err error) {
	link, _ := page["next_page"].(string)
	if link == "" {
		return nil, false, nil
	}
	target, err := l.resolveLink(link)
	if err != nil {
		return nil, false, err
	}
	next, err = l.get(ctx, target)
	if err != nil {
		return nil, false, err
	}
	return next, true, nil
}

// resolveLink turns a next_page value into an absolute URL. A path with a
// leading slash is taken relative to the API root, like every other
// endpoint; any other relative reference is resolved against the listing
// endpoint.
func (l *ResponseListing) resolveLink(link string) (string, error) {
	ref, err := url.Parse(link)
	if err != nil {
		return "", uaerrors.NewValueError("reports", "next_page", "next_page is not a valid URL", link)
	}
	if ref.IsAbs() {
		if ref.Host == "" {
			return "", uaerrors.NewValueError("reports", "next_page", "next_page has no host", link)
		}
		return link, nil
	}
	if strings.HasPrefix(ref.Path, "/") {
		return l.client.URL(ref.String()), nil
	}
	base, err := url.Parse(l.client.URL(responsesPath + "list"))
	if err != nil || !base.IsAbs() {
		return "", uaerrors.NewValueError("reports", "next_page",
			"cannot resolve relative next_page without an absolute base URL", link)
	}
	return base.ResolveReference(ref).String(), nil
}
