package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/unrolled/render"

	"github.com/vladislavprovich/familyhub/internal/service"
	"github.com/vladislavprovich/familyhub/pkg/client/familydb"
)

type Handler interface {
	ListPosts(w http.ResponseWriter, r *http.Request)
	CreatePost(w http.ResponseWriter, r *http.Request)
	DeletePost(w http.ResponseWriter, r *http.Request)
	ListRecipes(w http.ResponseWriter, r *http.Request)
	GetRecipe(w http.ResponseWriter, r *http.Request)
	CreateRecipe(w http.ResponseWriter, r *http.Request)
	UpdateRecipe(w http.ResponseWriter, r *http.Request)
	ListPolls(w http.ResponseWriter, r *http.Request)
	CreatePoll(w http.ResponseWriter, r *http.Request)
	Vote(w http.ResponseWriter, r *http.Request)
	CacheStats(w http.ResponseWriter, r *http.Request)
	Health(w http.ResponseWriter, r *http.Request)
}

type ServiceHandler struct {
	service service.FamilyService
	logger  *slog.Logger
	cfg     *Config
	render  *render.Render
}

func NewServiceHandler(srv service.FamilyService, logger *slog.Logger, cfg *Config, render *render.Render) *ServiceHandler {
	return &ServiceHandler{
		service: srv,
		logger:  logger,
		cfg:     cfg,
		render:  render,
	}
}

func (h *ServiceHandler) sendJSON(ctx context.Context, w io.Writer, status int, body any) {
	if err := h.render.JSON(w, status, body); err != nil {
		h.logger.ErrorContext(ctx, "render JSON error", slog.Any("error", err))
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// sendError maps service errors onto HTTP statuses: request validation
// failures are 400s, remote-store APIErrors keep their status, everything
// else is a 500.
func (h *ServiceHandler) sendError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	var vErrs validation.Errors
	if errors.As(err, &vErrs) {
		h.logger.WarnContext(ctx, "invalid request", slog.String("op", op), slog.Any("error", err))
		h.sendJSON(ctx, w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	var apiErr *familydb.APIError
	if errors.As(err, &apiErr) {
		h.logger.WarnContext(ctx, "remote store error", slog.String("op", op), slog.Any("error", err))
		status := int(apiErr.StatusCode)
		if status == 0 {
			status = http.StatusBadGateway
		}
		h.sendJSON(ctx, w, status, errorBody{Error: apiErr.Message})
		return
	}

	h.logger.ErrorContext(ctx, op+" error", slog.Any("error", err))
	h.sendJSON(ctx, w, http.StatusInternalServerError, errorBody{Error: err.Error()})
}
