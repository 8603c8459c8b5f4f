package api

import (
	"context"
	"errors"
	"io"
	"net"
	"net/url"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/bookchat/internal/errors"
	"github.com/diogo/bookchat/internal/models"
)

// maxErrorBody limits how much of a failed reply is kept for diagnostics
const maxErrorBody = 4096

// Query sends one query and returns the decoded reply.
// The query is sent as given; callers normalise it beforehand.
func (c *Client) Query(ctx context.Context, query string) (*models.QueryResponse, error) {
	if query == "" {
		return nil, apierrors.ErrEmptyQuery
	}

	if c.IsClosed() {
		return nil, apierrors.ErrClientClosed
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target, err := BuildQueryURL(c.endpoint, query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, apierrors.NewNetworkErrorWithEndpoint("build request", c.endpoint, err)
	}

	for key, value := range models.DefaultHeaders() {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, apierrors.NewTimeoutError(c.endpoint)
		}
		return nil, apierrors.NewNetworkErrorWithEndpoint("query", c.endpoint, err)
	}
	defer func() {
		if resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	c.logger.Debug("query settled",
		zap.String("endpoint", c.endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, apierrors.NewAPIErrorWithBody(resp.StatusCode, c.endpoint, "query failed", string(errorBody))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(ctx, err) {
			return nil, apierrors.NewTimeoutError(c.endpoint)
		}
		return nil, apierrors.NewNetworkErrorWithEndpoint("read response", c.endpoint, err)
	}

	return parseResponse(body)
}

// BuildQueryURL appends the query parameter to endpoint, keeping any
// parameters the endpoint already carries.
func BuildQueryURL(endpoint, query string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", apierrors.NewNetworkErrorWithEndpoint("parse endpoint", endpoint, err)
	}

	values := u.Query()
	values.Set(models.QueryParam, query)
	u.RawQuery = values.Encode()

	return u.String(), nil
}

// parseResponse extracts the markdown reply from a JSON body.
// The legacy misspelt key is accepted when the canonical one is absent.
func parseResponse(body []byte) (*models.QueryResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response body is not valid JSON", "")
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return nil, apierrors.NewParseError("response body is not a JSON object", "")
	}

	for _, field := range []string{models.ResponseField, models.LegacyResponseField} {
		value := parsed.Get(field)
		if !value.Exists() || value.Type == gjson.Null {
			continue
		}
		return &models.QueryResponse{
			Text:  value.String(),
			Field: field,
		}, nil
	}

	return nil, apierrors.NewMissingFieldError(models.ResponseField)
}

// isTimeout reports whether err came from a deadline rather than the peer
func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
