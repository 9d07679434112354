package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// openHTTP downloads uri fully, retrying transient failures. 4xx responses
// other than 429 are not retried.
func (l *Loader) openHTTP(ctx context.Context, uri string) (io.ReadCloser, error) {
	client := l.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	var body []byte
	err := l.Retry.Do(ctx, "GET "+uri, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return permanentError{err}
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			statusErr := fmt.Errorf("unexpected status %s", resp.Status)
			if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
				return permanentError{statusErr}
			}
			return statusErr
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		body = data
		return nil
	})
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(body)), nil
}
