package service

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type (
	Post struct {
		ID        string    `json:"id"`
		FamilyID  string    `json:"familyId"`
		Author    string    `json:"author"`
		Body      string    `json:"body"`
		CreatedAt time.Time `json:"createdAt"`
	}

	ListPostsRequest struct {
		FamilyID string `json:"familyId"`
		Page     int    `json:"page"`
		PageSize int    `json:"pageSize"`
	}

	ListPostsResponse struct {
		Posts []Post `json:"posts"`
	}

	CreatePostRequest struct {
		FamilyID string `json:"familyId"`
		Author   string `json:"author"`
		Body     string `json:"body"`
	}

	DeletePostRequest struct {
		FamilyID string `json:"familyId"`
		PostID   string `json:"postId"`
	}
)

type (
	Recipe struct {
		ID          string    `json:"id"`
		FamilyID    string    `json:"familyId"`
		Title       string    `json:"title"`
		Ingredients string    `json:"ingredients"`
		UpdatedAt   time.Time `json:"updatedAt"`
	}

	ListRecipesRequest struct {
		FamilyID string `json:"familyId"`
	}

	ListRecipesResponse struct {
		Recipes []Recipe `json:"recipes"`
	}

	GetRecipeRequest struct {
		FamilyID string `json:"familyId"`
		RecipeID string `json:"recipeId"`
	}

	CreateRecipeRequest struct {
		FamilyID    string `json:"familyId"`
		Title       string `json:"title"`
		Ingredients string `json:"ingredients"`
	}

	UpdateRecipeRequest struct {
		FamilyID    string `json:"familyId"`
		RecipeID    string `json:"recipeId"`
		Title       string `json:"title"`
		Ingredients string `json:"ingredients"`
	}
)

type (
	Poll struct {
		ID         string    `json:"id"`
		FamilyID   string    `json:"familyId"`
		Question   string    `json:"question"`
		TotalVotes int64     `json:"totalVotes"`
		CreatedAt  time.Time `json:"createdAt"`
	}

	ListPollsRequest struct {
		FamilyID string `json:"familyId"`
	}

	ListPollsResponse struct {
		Polls []Poll `json:"polls"`
	}

	CreatePollRequest struct {
		FamilyID string `json:"familyId"`
		Question string `json:"question"`
	}

	VoteRequest struct {
		FamilyID string `json:"familyId"`
		PollID   string `json:"pollId"`
		Member   string `json:"member"`
		Option   string `json:"option"`
	}
)

func (r *ListPostsRequest) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, r,
		validation.Field(&r.FamilyID, validation.Required),
		validation.Field(&r.Page, validation.Required, validation.Min(1)),
		validation.Field(&r.PageSize, validation.Required, validation.Min(1), validation.Max(100)),
	)
}

func (r *CreatePostRequest) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, r,
		validation.Field(&r.FamilyID, validation.Required),
		validation.Field(&r.Author, validation.Required),
		validation.Field(&r.Body, validation.Required),
	)
}

func (r *DeletePostRequest) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, r,
		validation.Field(&r.FamilyID, validation.Required),
		validation.Field(&r.PostID, validation.Required),
	)
}

func (r *ListRecipesRequest) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, r,
		validation.Field(&r.FamilyID, validation.Required),
	)
}

func (r *GetRecipeRequest) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, r,
		validation.Field(&r.FamilyID, validation.Required),
		validation.Field(&r.RecipeID, validation.Required),
	)
}

func (r *CreateRecipeRequest) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, r,
		validation.Field(&r.FamilyID, validation.Required),
		validation.Field(&r.Title, validation.Required),
	)
}

func (r *UpdateRecipeRequest) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, r,
		validation.Field(&r.FamilyID, validation.Required),
		validation.Field(&r.RecipeID, validation.Required),
	)
}

func (r *ListPollsRequest) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, r,
		validation.Field(&r.FamilyID, validation.Required),
	)
}

func (r *CreatePollRequest) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, r,
		validation.Field(&r.FamilyID, validation.Required),
		validation.Field(&r.Question, validation.Required),
	)
}

func (r *VoteRequest) ValidateWithContext(ctx context.Context) error {
	return validation.ValidateStructWithContext(ctx, r,
		validation.Field(&r.FamilyID, validation.Required),
		validation.Field(&r.PollID, validation.Required),
		validation.Field(&r.Member, validation.Required),
		validation.Field(&r.Option, validation.Required),
	)
}
