package angelone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"angelone-connect/internal/logger"
)

type requestSpec struct {
	url     string
	method  string
	body    any
	headers []header
}

// do performs exactly one round trip and returns the raw response body.
// Only status 200 counts as success; redirects and other 2xx codes do not.
func (s *Session) do(ctx context.Context, rs requestSpec) ([]byte, error) {
	var reader io.Reader
	if rs.body != nil && (rs.method == http.MethodPost || rs.method == http.MethodPut) {
		b, err := json.Marshal(rs.body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, rs.method, rs.url, reader)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	applyHeaders(req, rs.headers)

	logger.Debug(ctx, "Dispatching Angel One request", "method", rs.method, "url", rs.url)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		logger.Debug(ctx, "Angel One request rejected", "url", rs.url, "status", resp.StatusCode)
		return nil, &TransportError{StatusCode: resp.StatusCode}
	}

	return body, nil
}
