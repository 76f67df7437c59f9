package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavprovich/familyhub/internal/service"
)

func (h *ServiceHandler) ListRecipes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := service.ListRecipesRequest{
		FamilyID: r.URL.Query().Get("familyId"),
	}

	resp, err := h.service.ListRecipes(ctx, &req)
	if err != nil {
		h.sendError(ctx, w, "ListRecipes", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, resp)
}

func (h *ServiceHandler) GetRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := service.GetRecipeRequest{
		FamilyID: r.URL.Query().Get("familyId"),
		RecipeID: chi.URLParam(r, "recipeID"),
	}

	resp, err := h.service.GetRecipe(ctx, &req)
	if err != nil {
		h.sendError(ctx, w, "GetRecipe", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, resp)
}

func (h *ServiceHandler) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.CreateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		h.sendJSON(ctx, w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	resp, err := h.service.CreateRecipe(ctx, &req)
	if err != nil {
		h.sendError(ctx, w, "CreateRecipe", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusCreated, resp)
}

func (h *ServiceHandler) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req service.UpdateRecipeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode request body", slog.Any("error", err))
		h.sendJSON(ctx, w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	req.RecipeID = chi.URLParam(r, "recipeID")

	resp, err := h.service.UpdateRecipe(ctx, &req)
	if err != nil {
		h.sendError(ctx, w, "UpdateRecipe", err)
		return
	}

	h.sendJSON(ctx, w, http.StatusOK, resp)
}
