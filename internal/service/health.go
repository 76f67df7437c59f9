package service

import (
	"context"
	"net/http"
)

type HealthResponse struct {
	Status int `json:"status"`
}

func (s *Service) Health(_ context.Context) (*HealthResponse, error) {
	return &HealthResponse{
		Status: http.StatusOK,
	}, nil
}
