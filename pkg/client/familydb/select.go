package familydb

import (
	"context"
	"fmt"
	"net/http"
)

func (c *BasicClient) Select(
	ctx context.Context,
	req *SelectRequest,
) (*SelectResponse, error) {
	selectURL := withPaging(c.tableURL(req.Table, req.Filters), req.OrderBy, req.Limit, req.Offset)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, selectURL, nil)
	if err != nil {
		return nil, fmt.Errorf("error creating new request for Select: %w", err)
	}
	c.setHeaders(httpReq)

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error doing request for Select: %w", err)
	}
	defer c.closeBody(ctx, "Select", res)

	rows, err := readRows("Select", res)
	if err != nil {
		return nil, err
	}

	return &SelectResponse{Rows: rows}, nil
}
