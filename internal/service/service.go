package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vladislavprovich/familyhub/internal/worker"
	"github.com/vladislavprovich/familyhub/pkg/cache"
	"github.com/vladislavprovich/familyhub/pkg/client/familydb"
)

// Per-entity TTLs follow data volatility: the posts feed changes often,
// recipes are reference data, polls are the most volatile.
const (
	postsTTL   = time.Minute
	recipesTTL = 30 * time.Minute
	pollsTTL   = 30 * time.Second
)

// Cache key prefixes. Every key starts with "{prefix}_{familyID}" so a write
// for one family invalidates exactly that family's cached queries.
const (
	postsPrefix   = "family_posts"
	recipesPrefix = "family_recipes"
	pollsPrefix   = "family_polls"
)

const (
	postsTable     = "family_posts"
	recipesTable   = "family_recipes"
	pollsTable     = "family_polls"
	pollVotesTable = "family_poll_votes"
)

type FamilyService interface {
	ListPosts(ctx context.Context, req *ListPostsRequest) (*ListPostsResponse, error)
	CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error)
	DeletePost(ctx context.Context, req *DeletePostRequest) error

	ListRecipes(ctx context.Context, req *ListRecipesRequest) (*ListRecipesResponse, error)
	GetRecipe(ctx context.Context, req *GetRecipeRequest) (*Recipe, error)
	CreateRecipe(ctx context.Context, req *CreateRecipeRequest) (*Recipe, error)
	UpdateRecipe(ctx context.Context, req *UpdateRecipeRequest) (*Recipe, error)

	ListPolls(ctx context.Context, req *ListPollsRequest) (*ListPollsResponse, error)
	CreatePoll(ctx context.Context, req *CreatePollRequest) (*Poll, error)
	Vote(ctx context.Context, req *VoteRequest) error

	CacheStats(ctx context.Context) (*cache.Stats, error)
	Health(ctx context.Context) (*HealthResponse, error)
}

// Notifier fans family events out to member devices. A nil notifier
// disables notifications without touching the write path.
type Notifier interface {
	Submit(ctx context.Context, job *worker.Notification) (*worker.NotificationResult, error)
}

type Service struct {
	logger   *slog.Logger
	db       familydb.Client
	cache    cache.Service
	notifier Notifier
}

func NewFamilyService(
	_ context.Context,
	log *slog.Logger,
	db familydb.Client,
	store cache.Service,
	notifier Notifier,
) *Service {
	return &Service{
		logger:   log,
		db:       db,
		cache:    store,
		notifier: notifier,
	}
}

// CacheStats exposes the shared store's counters for the stats endpoint.
func (s *Service) CacheStats(ctx context.Context) (*cache.Stats, error) {
	return s.cache.GetStats(ctx)
}

// invalidateScope drops every cached query for one family under prefix.
// Called after any successful write so the next read cannot observe
// pre-write data.
func (s *Service) invalidateScope(ctx context.Context, prefix, familyID string) {
	if err := s.cache.InvalidatePattern(ctx, cache.ScopePattern(prefix, familyID)); err != nil {
		s.logger.ErrorContext(ctx, "cache invalidation failed",
			slog.String("prefix", prefix),
			slog.String("family_id", familyID),
			slog.Any("error", err),
		)
	}
}

// notify submits a delivery job without blocking the write path. Failures
// are logged; a write never fails because a notification did.
func (s *Service) notify(familyID, event, message string) {
	if s.notifier == nil {
		return
	}

	job := &worker.Notification{
		ID:        fmt.Sprintf("%s_%s_%d", event, familyID, time.Now().UnixNano()),
		FamilyID:  familyID,
		Event:     event,
		Message:   message,
		CreatedAt: time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		result, err := s.notifier.Submit(ctx, job)
		if err != nil {
			s.logger.ErrorContext(ctx, "notification submit failed",
				slog.String("event", event),
				slog.Any("error", err),
			)
			return
		}
		if result.Error != "" {
			s.logger.WarnContext(ctx, "notification not delivered",
				slog.String("event", event),
				slog.String("reason", result.Error),
			)
		}
	}()
}
