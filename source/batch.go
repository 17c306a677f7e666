package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// DefaultBatchSize is the largest id batch the OMIM API accepts.
const DefaultBatchSize = 20

// Batch results reported to the observer.
const (
	BatchOK      = "ok"
	BatchSkipped = "skipped"
	BatchFailed  = "error"
)

var (
	// ErrRemoteFetch matches every RemoteFetchError.
	ErrRemoteFetch = errors.New("remote fetch failed")

	// ErrInvalidAPIKey is returned when the remote rejects the API key.
	ErrInvalidAPIKey = errors.New("API key not valid")
)

var invalidKeyPattern = regexp.MustCompile(`The API key: .* is invalid`)

// RemoteFetchError reports an HTTP failure for one batch.
type RemoteFetchError struct {
	URL    string
	Status int
	Body   string
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("fetch %s: status %d: %s", redact(e.URL), e.Status, e.Body)
}

// Is lets errors.Is match ErrRemoteFetch.
func (e *RemoteFetchError) Is(target error) bool {
	return target == ErrRemoteFetch
}

// Batch is one successful response.
type Batch struct {
	// Offset is the index of the first id in the batch.
	Offset int
	IDs    []string
	Body   json.RawMessage
}

// BatchFetcher pulls records from a JSON API in fixed size id batches.
// Batches run sequentially to respect upstream rate limits.
type BatchFetcher struct {
	Client *http.Client

	// Endpoint is the API URL without a query.
	Endpoint string

	// Params are sent with every request (format, include, apiKey, ...).
	Params url.Values

	// IDParam names the query parameter carrying the comma joined ids.
	IDParam string

	BatchSize int

	// SnapshotDir, when set, receives a copy of every batch body as
	// _<end>.json.
	SnapshotDir string

	Headers  map[string]string
	Logger   *slog.Logger
	Observer func(result string)
}

func (f *BatchFetcher) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}

func (f *BatchFetcher) observe(result string) {
	if f.Observer != nil {
		f.Observer(result)
	}
}

// Fetch requests ids batch by batch. When optional is true a batch rejected
// for an invalid API key is logged and skipped; every other failure stops
// the run and is returned with the batches fetched so far.
func (f *BatchFetcher) Fetch(ctx context.Context, ids []string, optional bool) ([]Batch, error) {
	size := f.BatchSize
	if size <= 0 {
		size = DefaultBatchSize
	}
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	if f.SnapshotDir != "" {
		if err := os.MkdirAll(f.SnapshotDir, 0o755); err != nil {
			return nil, fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	var out []Batch
	for start := 0; start < len(ids); start += size {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		end := min(start+size, len(ids))
		chunk := ids[start:end]

		body, err := f.get(ctx, client, chunk)
		if err != nil {
			if optional && errors.Is(err, ErrInvalidAPIKey) {
				f.logger().Warn("Skipping batch", "offset", start, "error", err)
				f.observe(BatchSkipped)
				continue
			}
			f.observe(BatchFailed)
			return out, err
		}

		if f.SnapshotDir != "" {
			name := filepath.Join(f.SnapshotDir, fmt.Sprintf("_%d.json", start+size))
			if err := os.WriteFile(name, body, 0o644); err != nil {
				f.observe(BatchFailed)
				return out, fmt.Errorf("write snapshot: %w", err)
			}
		}
		f.observe(BatchOK)
		out = append(out, Batch{Offset: start, IDs: chunk, Body: body})
	}
	return out, nil
}

func (f *BatchFetcher) get(ctx context.Context, client *http.Client, ids []string) ([]byte, error) {
	params := url.Values{}
	for k, v := range f.Params {
		params[k] = v
	}
	idParam := f.IDParam
	if idParam == "" {
		idParam = "ids"
	}
	params.Set(idParam, strings.Join(ids, ","))
	reqURL := f.Endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	for k, v := range f.Headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", redact(reqURL), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", redact(reqURL), err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if invalidKeyPattern.Match(body) {
			return nil, fmt.Errorf("%w: status %d", ErrInvalidAPIKey, resp.StatusCode)
		}
		return nil, &RemoteFetchError{URL: reqURL, Status: resp.StatusCode, Body: truncate(string(body), 200)}
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("fetch %s: response is not JSON", redact(reqURL))
	}
	return body, nil
}

// redact hides API keys carried in a query string.
func redact(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q := u.Query()
	for k := range q {
		if strings.EqualFold(k, "apikey") || strings.EqualFold(k, "api_key") {
			q.Set(k, "REDACTED")
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
