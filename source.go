package schooldb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/franklin0603/schooldb/domain/model"
)

// locatorPath returns the path component of a locator, used to detect format
// and compression from its extension.
func locatorPath(locator string) string {
	if u, err := url.Parse(locator); err == nil {
		switch u.Scheme {
		case "http", "https", "file":
			return u.Path
		}
	}
	return locator
}

// openLocator opens the raw byte stream behind a locator: an http or https URL,
// a file URL, or a local path.
func (d *Database) openLocator(ctx context.Context, locator string) (io.ReadCloser, error) {
	u, err := url.Parse(locator)
	if err == nil {
		switch u.Scheme {
		case "http", "https":
			return d.fetch(ctx, locator)
		case "file":
			return openFile(u.Path)
		}
	}
	return openFile(locator)
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path) //nolint:gosec // reading caller-selected sources is the point
	if err != nil {
		return nil, fmt.Errorf("failed to open source: %w", err)
	}
	return f, nil
}

func (d *Database) fetch(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch source: unexpected HTTP status %s", resp.Status)
	}
	return resp.Body, nil
}

// openSource opens a locator and wraps it with the decompressor matching its
// extension. The returned closer releases both.
func (d *Database) openSource(ctx context.Context, locator string) (io.Reader, func() error, error) {
	body, err := d.openLocator(ctx, locator)
	if err != nil {
		return nil, nil, err
	}

	handler := newCompressionHandler(model.DetectCompressionType(locatorPath(locator)))
	reader, cleanup, err := handler.createReader(body)
	if err != nil {
		_ = body.Close()
		return nil, nil, err
	}

	closer := func() error {
		return errors.Join(cleanup(), body.Close())
	}
	return reader, closer, nil
}

// loadSource reads and parses a locator into a table named table.
func (d *Database) loadSource(ctx context.Context, locator, table string, fileType model.FileType) (*model.Table, error) {
	reader, closer, err := d.openSource(ctx, locator)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := closer(); closeErr != nil {
			d.logger.Warn("failed to close source", "source", locator, "error", closeErr)
		}
	}()

	return parseTable(ctx, reader, fileType, table)
}
