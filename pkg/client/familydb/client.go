package familydb

import (
	"context"
	"log/slog"
	"net/http"
)

// Client is the data-access layer over the hosted relational store's table
// API. Services never cache inside this package; they compose it with the
// cache on their side.
type Client interface {
	Select(ctx context.Context, req *SelectRequest) (*SelectResponse, error)
	Insert(ctx context.Context, req *InsertRequest) (*InsertResponse, error)
	Update(ctx context.Context, req *UpdateRequest) (*UpdateResponse, error)
	Delete(ctx context.Context, req *DeleteRequest) (*DeleteResponse, error)
}

type BasicClient struct {
	client *http.Client
	logger *slog.Logger
	cfg    *Config
}

func NewBasicClient(httpClient *http.Client, cfg *Config, log *slog.Logger) *BasicClient {
	return &BasicClient{
		client: httpClient,
		logger: log,
		cfg:    cfg,
	}
}
