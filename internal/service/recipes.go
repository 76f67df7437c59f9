package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/vladislavprovich/familyhub/pkg/cache"
	"github.com/vladislavprovich/familyhub/pkg/client/familydb"
)

// Recipes are reference data and cache for 30 minutes. Both the list key
// "family_recipes_{fid}_list" and the point key "family_recipes_{fid}_id_{rid}"
// live under the same scope prefix, so one invalidation covers both.

func (s *Service) ListRecipes(ctx context.Context, req *ListRecipesRequest) (*ListRecipesResponse, error) {
	if err := req.ValidateWithContext(ctx); err != nil {
		return nil, err
	}

	key := cache.Key(recipesPrefix, req.FamilyID, "list")

	value, err := s.cache.GetOrLoad(ctx, key, recipesTTL, func(ctx context.Context) (interface{}, error) {
		clientResp, err := s.db.Select(ctx, &familydb.SelectRequest{
			Table:   recipesTable,
			Filters: map[string]string{"family_id": req.FamilyID},
			OrderBy: "title.asc",
		})
		if err != nil {
			return nil, err
		}
		return &ListRecipesResponse{Recipes: recipesFromRows(clientResp.Rows)}, nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "service ListRecipes", slog.Any("error", err))
		return nil, err
	}

	resp, ok := value.(*ListRecipesResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value under %s: %T", key, value)
	}
	return resp, nil
}

func (s *Service) GetRecipe(ctx context.Context, req *GetRecipeRequest) (*Recipe, error) {
	if err := req.ValidateWithContext(ctx); err != nil {
		return nil, err
	}

	key := cache.Key(recipesPrefix, req.FamilyID, "id", req.RecipeID)

	value, err := s.cache.GetOrLoad(ctx, key, recipesTTL, func(ctx context.Context) (interface{}, error) {
		clientResp, err := s.db.Select(ctx, &familydb.SelectRequest{
			Table: recipesTable,
			Filters: map[string]string{
				"id":        req.RecipeID,
				"family_id": req.FamilyID,
			},
			Limit: 1,
		})
		if err != nil {
			return nil, err
		}
		if len(clientResp.Rows) == 0 {
			return nil, &familydb.APIError{Code: "NOT_FOUND", Message: "recipe not found", StatusCode: http.StatusNotFound}
		}
		recipe := recipeFromRow(clientResp.Rows[0])
		return &recipe, nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "service GetRecipe", slog.Any("error", err))
		return nil, err
	}

	resp, ok := value.(*Recipe)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value under %s: %T", key, value)
	}
	return resp, nil
}

func (s *Service) CreateRecipe(ctx context.Context, req *CreateRecipeRequest) (*Recipe, error) {
	if err := req.ValidateWithContext(ctx); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "CreateRecipe", slog.String("family_id", req.FamilyID))

	clientResp, err := s.db.Insert(ctx, &familydb.InsertRequest{
		Table: recipesTable,
		Row: familydb.Row{
			"family_id":   req.FamilyID,
			"title":       req.Title,
			"ingredients": req.Ingredients,
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "service client.Insert recipe", slog.Any("error", err))
		return nil, err
	}

	s.invalidateScope(ctx, recipesPrefix, req.FamilyID)

	recipe := recipeFromRow(clientResp.Row)
	return &recipe, nil
}

func (s *Service) UpdateRecipe(ctx context.Context, req *UpdateRecipeRequest) (*Recipe, error) {
	if err := req.ValidateWithContext(ctx); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "UpdateRecipe",
		slog.String("family_id", req.FamilyID),
		slog.String("recipe_id", req.RecipeID),
	)

	changes := familydb.Row{}
	if req.Title != "" {
		changes["title"] = req.Title
	}
	if req.Ingredients != "" {
		changes["ingredients"] = req.Ingredients
	}

	clientResp, err := s.db.Update(ctx, &familydb.UpdateRequest{
		Table: recipesTable,
		Filters: map[string]string{
			"id":        req.RecipeID,
			"family_id": req.FamilyID,
		},
		Changes: changes,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "service client.Update recipe", slog.Any("error", err))
		return nil, err
	}
	if len(clientResp.Rows) == 0 {
		return nil, &familydb.APIError{Code: "NOT_FOUND", Message: "recipe not found", StatusCode: http.StatusNotFound}
	}

	s.invalidateScope(ctx, recipesPrefix, req.FamilyID)

	recipe := recipeFromRow(clientResp.Rows[0])
	return &recipe, nil
}
