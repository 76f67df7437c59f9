package familydb

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

func (c *BasicClient) Insert(
	ctx context.Context,
	req *InsertRequest,
) (*InsertResponse, error) {
	payload, err := json.Marshal(req.Row)
	if err != nil {
		return nil, fmt.Errorf("error marshalling payload for Insert: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.tableURL(req.Table, nil),
		bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating new request for Insert: %w", err)
	}
	c.setHeaders(httpReq)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Prefer", "return=representation")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("error doing request for Insert: %w", err)
	}
	defer c.closeBody(ctx, "Insert", res)

	rows, err := readRows("Insert", res)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("empty representation returned for Insert into %s", req.Table)
	}

	return &InsertResponse{Row: rows[0]}, nil
}
