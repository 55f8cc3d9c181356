package consultants

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
)

// getJSON fetches url and decodes the body into target. Transport errors and
// 5xx statuses are retried up to MaxRetries times; every failure wraps
// ErrUpstreamFetch, except undecodable bodies which wrap ErrUpstreamShape.
func (c *Client) getJSON(ctx context.Context, url string, target any) error {
	op := func() error {
		err := c.getJSONOnce(ctx, url, target)
		if err == nil {
			return nil
		}

		var status *statusError
		if errors.As(err, &status) && status.code < http.StatusInternalServerError {
			return backoff.Permanent(err)
		}

		c.logger.Debug("upstream request failed", zap.String("url", url), zap.Error(err))
		return err
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(c.newBackOff(), uint64(c.MaxRetries)), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		if errors.Is(err, ErrUpstreamShape) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUpstreamFetch, err)
	}

	return nil
}

func (c *Client) getJSONOnce(ctx context.Context, url string, target any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(err)
	}

	req = c.setHeaders(req)

	resp, err := c.request(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode, status: resp.Status}
	}

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, target); err != nil {
		return backoff.Permanent(fmt.Errorf("%w: decode body: %w", ErrUpstreamShape, err))
	}

	return nil
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request", zap.String("url", req.URL.String()))
	return c.HTTPClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

type statusError struct {
	code   int
	status string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("bad status: %s", e.status)
}
