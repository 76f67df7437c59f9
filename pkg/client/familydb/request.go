package familydb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// tableURL builds {base}/{table} with filters rendered as eq. query
// parameters, the way the hosted table API expects them.
func (c *BasicClient) tableURL(table string, filters map[string]string) string {
	query := url.Values{}
	for column, value := range filters {
		query.Set(column, "eq."+value)
	}

	u := fmt.Sprintf("%s/%s", c.cfg.BaseURL, url.PathEscape(table))
	if encoded := query.Encode(); encoded != "" {
		u += "?" + encoded
	}
	return u
}

func (c *BasicClient) closeBody(ctx context.Context, op string, res *http.Response) {
	if err := res.Body.Close(); err != nil {
		c.logger.ErrorContext(ctx,
			"error closing response body",
			slog.String("op", op),
			slog.Any("error", err),
		)
	}
}

// readRows handles the shared response shape of the table API: a JSON array
// of rows on success, an {code, message} error document otherwise.
func readRows(op string, res *http.Response) ([]Row, error) {
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body for %s: %w", op, err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		var apiErr APIError
		if err = json.Unmarshal(body, &apiErr); err != nil {
			// If the body is not parsed, we return a general error.
			return nil, fmt.Errorf("unexpected status %d and cannot parse error body: %s",
				res.StatusCode,
				string(body),
			)
		}

		apiErr.StatusCode = int64(res.StatusCode)
		return nil, &apiErr
	}

	var rows []Row
	if err = json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("error unmarshalling response body for %s: %w", op, err)
	}

	return rows, nil
}

func (c *BasicClient) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Api-Key", c.cfg.APISecret)
}

func withPaging(u string, orderBy string, limit, offset int) string {
	query := url.Values{}
	if orderBy != "" {
		query.Set("order", orderBy)
	}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	}

	encoded := query.Encode()
	if encoded == "" {
		return u
	}

	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + encoded
}
