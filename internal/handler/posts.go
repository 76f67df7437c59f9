package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavprovich/familyhub/internal/service"
)

func (h *ServiceHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page == 0 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if pageSize == 0 {
		pageSize = 20
	}

	req := service.ListPostsRequest{
		FamilyID: r.URL.Query().Get("familyId"),
		Page:     page,
		PageSize: pageSize,
	}

	resp, err := h.service.ListPosts(ctx, &req)
	if err != nil {
		h.sendError(ctx, w, "ListPosts", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, resp)
}

func (h *ServiceHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		h.sendJSON(ctx, w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	resp, err := h.service.CreatePost(ctx, &req)
	if err != nil {
		h.sendError(ctx, w, "CreatePost", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusCreated, resp)
}

func (h *ServiceHandler) DeletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := service.DeletePostRequest{
		FamilyID: r.URL.Query().Get("familyId"),
		PostID:   chi.URLParam(r, "postID"),
	}

	if err := h.service.DeletePost(ctx, &req); err != nil {
		h.sendError(ctx, w, "DeletePost", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
