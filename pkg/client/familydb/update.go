package familydb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

func (c *BasicClient) Update(
	ctx context.Context,
	req *UpdateRequest,
) (*UpdateResponse, error) {
	payload, err := json.Marshal(req.Changes)
	if err != nil {
		return nil, fmt.Errorf("error marshalling payload for Update: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPatch,
		c.tableURL(req.Table, req.Filters),
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating new request for Update: %w", err)
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Prefer", "return=representation")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error doing request for Update: %w", err)
	}
	defer c.closeBody(ctx, "Update", res)

	rows, err := readRows("Update", res)
	if err != nil {
		return nil, err
	}

	return &UpdateResponse{Rows: rows}, nil
}
