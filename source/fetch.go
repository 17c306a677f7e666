package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// UserAgent is sent with every upstream request.
const UserAgent = "semingest/1.0 (+https://github.com/c360studio/semingest)"

// Downloader fetches upstream files into a local directory.
type Downloader struct {
	Client *http.Client
	Logger *slog.Logger
}

func (d *Downloader) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return &http.Client{Timeout: 10 * time.Minute}
}

func (d *Downloader) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return slog.Default()
}

func (d *Downloader) request(ctx context.Context, method string, f File) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	for k, v := range f.Headers {
		req.Header.Set(k, v)
	}
	resp, err := d.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, redact(f.URL), err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		resp.Body.Close()
		return nil, &RemoteFetchError{URL: f.URL, Status: resp.StatusCode}
	}
	return resp, nil
}

// RemoteIsNewer reports whether f should be downloaded over the local copy
// at dest: the local file is missing, its size differs from the remote
// Content-Length, or the remote gives neither a size nor a modification
// time. A remote modified after the local copy but of the same size is
// not fetched again.
func (d *Downloader) RemoteIsNewer(ctx context.Context, f File, dest string) (bool, error) {
	info, err := os.Stat(dest)
	if os.IsNotExist(err) {
		return true, nil
	}
	if err != nil {
		return false, err
	}

	resp, err := d.request(ctx, http.MethodHead, f)
	if err != nil {
		return false, err
	}
	resp.Body.Close()

	size, err := strconv.ParseInt(resp.Header.Get("Content-Length"), 10, 64)
	sized := err == nil
	if sized && size != info.Size() {
		d.logger().Info("Local file size differs from remote",
			"path", dest, "local", info.Size(), "remote", size)
		return true, nil
	}
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if modified, err := http.ParseTime(lm); err == nil && modified.After(info.ModTime()) {
			d.logger().Info("Remote file has same size, skipping", "url", redact(f.URL))
		}
		return false, nil
	}
	return !sized, nil
}

// Download saves f below dir unless a current local copy exists and force
// is false. It reports whether a download happened. The body goes to a
// temporary file in dir that replaces the destination only once it is
// complete.
func (d *Downloader) Download(ctx context.Context, f File, dir string, force bool) (bool, error) {
	dest := filepath.Join(dir, f.File)
	if !force {
		newer, err := d.RemoteIsNewer(ctx, f, dest)
		if err != nil {
			return false, err
		}
		if !newer {
			d.logger().Info("Using existing file", "path", dest)
			return false, nil
		}
	}

	d.logger().Info("Fetching", "url", redact(f.URL))
	resp, err := d.request(ctx, http.MethodGet, f)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return false, fmt.Errorf("create raw dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return false, fmt.Errorf("create temp file for %s: %w", dest, err)
	}
	n, err := d.save(tmp, resp)
	if err != nil {
		os.Remove(tmp.Name())
		return false, fmt.Errorf("download %s: %w", f.File, err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return false, fmt.Errorf("replace %s: %w", dest, err)
	}
	d.logger().Info("Wrote file", "path", dest, "bytes", n)
	return true, nil
}

// save copies the body into tmp and closes it, failing on a short body.
func (d *Downloader) save(tmp *os.File, resp *http.Response) (int64, error) {
	n, err := io.Copy(tmp, resp.Body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, err
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		return n, fmt.Errorf("got %d bytes, expected %d", n, resp.ContentLength)
	}
	return n, nil
}
