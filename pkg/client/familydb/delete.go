package familydb

import (
	"context"
	"fmt"
	"net/http"
)

func (c *BasicClient) Delete(
	ctx context.Context,
	req *DeleteRequest,
) (*DeleteResponse, error) {
	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodDelete,
		c.tableURL(req.Table, req.Filters),
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("error creating new request for Delete: %w", err)
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Prefer", "return=representation")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error doing request for Delete: %w", err)
	}
	defer c.closeBody(ctx, "Delete", res)

	rows, err := readRows("Delete", res)
	if err != nil {
		return nil, err
	}

	return &DeleteResponse{Deleted: int64(len(rows))}, nil
}
