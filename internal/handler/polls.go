package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavprovich/familyhub/internal/service"
)

func (h *ServiceHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := service.ListPollsRequest{
		FamilyID: r.URL.Query().Get("familyId"),
	}

	resp, err := h.service.ListPolls(ctx, &req)
	if err != nil {
		h.sendError(ctx, w, "ListPolls", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, resp)
}

func (h *ServiceHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CreatePollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		h.sendJSON(ctx, w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	resp, err := h.service.CreatePoll(ctx, &req)
	if err != nil {
		h.sendError(ctx, w, "CreatePoll", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusCreated, resp)
}

func (h *ServiceHandler) Vote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		h.sendJSON(ctx, w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	req.PollID = chi.URLParam(r, "pollID")

	if err := h.service.Vote(ctx, &req); err != nil {
		h.sendError(ctx, w, "Vote", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
