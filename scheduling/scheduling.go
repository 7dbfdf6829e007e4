// Package scheduling is the meeting scheduling collaborator. Meetings are
// handed to a calendar webhook as query parameters.
package scheduling

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/taskrouter/core"
	"github.com/hupe1980/taskrouter/logging"
)

// DefaultDuration is the length of a scheduled meeting.
const DefaultDuration = time.Hour

// Meeting is a calendar invite. Start is in unix milliseconds.
type Meeting struct {
	Start        int64
	Title        string
	Participants string
	Location     string
	Description  string
}

// Notifier delivers a meeting to a calendar.
type Notifier interface {
	Notify(ctx context.Context, m Meeting) error
}

// WebhookOptions configure a WebhookNotifier.
type WebhookOptions struct {
	Duration   time.Duration
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logging.Logger
}

// WebhookNotifier sends meetings to a catch hook with a GET request.
type WebhookNotifier struct {
	url  string
	opts WebhookOptions
}

// NewWebhookNotifier creates a notifier for the given hook URL.
func NewWebhookNotifier(hookURL string, optFns ...func(o *WebhookOptions)) *WebhookNotifier {
	opts := WebhookOptions{
		Duration: DefaultDuration,
		Timeout:  10 * time.Second,
		Logger:   logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &WebhookNotifier{url: hookURL, opts: opts}
}

// Notify implements Notifier.
func (n *WebhookNotifier) Notify(ctx context.Context, m Meeting) error {
	if n.url == "" {
		return fmt.Errorf("%w: webhook url not configured", core.ErrFetch)
	}
	u, err := url.Parse(n.url)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrFetch, err)
	}

	q := u.Query()
	q.Set("invite", m.Participants)
	q.Set("description", m.Description)
	q.Set("title", m.Title)
	q.Set("start", strconv.FormatInt(m.Start, 10))
	q.Set("end", strconv.FormatInt(m.Start+n.opts.Duration.Milliseconds(), 10))
	q.Set("location", m.Location)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrFetch, err)
	}
	resp, err := n.opts.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrFetch, err)
	}
	defer resp.Body.Close()

	n.opts.Logger.Debug("scheduling.webhook", "status", resp.StatusCode, "title", m.Title)
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%w: status %d", core.ErrFetch, resp.StatusCode)
	}
	return nil
}

var (
	digitsRe = regexp.MustCompile(`^\d+$`)
	// Mon Nov 11 2024 23:28:43 GMT+0530 (India Standard Time)
	zoneNameRe = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
)

var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC1123Z,
	time.RFC1123,
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	"Mon Jan 2 2006 15:04:05 GMT-0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDateTime converts s to unix milliseconds. Accepted inputs are
// RFC3339, RFC1123, the browser Date.toString form and unix timestamps.
// Ten digit timestamps are seconds.
func ParseDateTime(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty date_time", core.ErrInvalidArgument)
	}

	if digitsRe.MatchString(s) {
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: date_time %q", core.ErrInvalidArgument, s)
		}
		if len(s) == 10 {
			n *= 1000
		}
		return n, nil
	}

	s = zoneNameRe.ReplaceAllString(s, "")
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("%w: unrecognized date_time %q", core.ErrInvalidArgument, s)
}
