package service_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vladislavprovich/familyhub/internal/service"
	"github.com/vladislavprovich/familyhub/internal/worker"
	"github.com/vladislavprovich/familyhub/pkg/cache"
	"github.com/vladislavprovich/familyhub/pkg/client/familydb"
)

type mockFamilyDBClient struct {
	mock.Mock
}

func (m *mockFamilyDBClient) Select(ctx context.Context, req *familydb.SelectRequest) (*familydb.SelectResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*familydb.SelectResponse)
	return resp, args.Error(1)
}

func (m *mockFamilyDBClient) Insert(ctx context.Context, req *familydb.InsertRequest) (*familydb.InsertResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*familydb.InsertResponse)
	return resp, args.Error(1)
}

func (m *mockFamilyDBClient) Update(ctx context.Context, req *familydb.UpdateRequest) (*familydb.UpdateResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*familydb.UpdateResponse)
	return resp, args.Error(1)
}

func (m *mockFamilyDBClient) Delete(ctx context.Context, req *familydb.DeleteRequest) (*familydb.DeleteResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*familydb.DeleteResponse)
	return resp, args.Error(1)
}

func newTestService(t *testing.T) (*service.Service, *mockFamilyDBClient, cache.Service) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	client := new(mockFamilyDBClient)
	store := cache.NewMemory(cache.Config{Capacity: 256, DefaultTTL: time.Minute})

	return service.NewFamilyService(context.Background(), logger, client, store, nil), client, store
}

type stubNotifier struct {
	jobs chan *worker.Notification
}

func (s *stubNotifier) Submit(_ context.Context, job *worker.Notification) (*worker.NotificationResult, error) {
	s.jobs <- job
	return &worker.NotificationResult{ID: job.ID, Delivered: true}, nil
}

func postRow(id, familyID, body string) familydb.Row {
	return familydb.Row{
		"id":         id,
		"family_id":  familyID,
		"author":     "mom",
		"body":       body,
		"created_at": "2025-06-01T12:00:00Z",
	}
}

func TestService_ListPostsCachesSecondRead(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()

	client.On("Select", mock.Anything, mock.Anything).Return(&familydb.SelectResponse{
		Rows: []familydb.Row{postRow("p1", "42", "hello")},
	}, nil).Once()

	req := &service.ListPostsRequest{FamilyID: "42", Page: 1, PageSize: 20}

	first, err := svc.ListPosts(ctx, req)
	require.NoError(t, err)
	require.Len(t, first.Posts, 1)
	assert.Equal(t, "hello", first.Posts[0].Body)

	second, err := svc.ListPosts(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	client.AssertNumberOfCalls(t, "Select", 1)
}

func TestService_WriteThenReadConsistency(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()

	client.On("Select", mock.Anything, mock.Anything).Return(&familydb.SelectResponse{
		Rows: []familydb.Row{postRow("p1", "42", "hello")},
	}, nil).Once()
	client.On("Select", mock.Anything, mock.Anything).Return(&familydb.SelectResponse{
		Rows: []familydb.Row{
			postRow("p2", "42", "world"),
			postRow("p1", "42", "hello"),
		},
	}, nil).Once()
	client.On("Insert", mock.Anything, mock.Anything).Return(&familydb.InsertResponse{
		Row: postRow("p2", "42", "world"),
	}, nil)

	listReq := &service.ListPostsRequest{FamilyID: "42", Page: 1, PageSize: 20}

	before, err := svc.ListPosts(ctx, listReq)
	require.NoError(t, err)
	require.Len(t, before.Posts, 1)

	_, err = svc.CreatePost(ctx, &service.CreatePostRequest{
		FamilyID: "42",
		Author:   "mom",
		Body:     "world",
	})
	require.NoError(t, err)

	// The write invalidated the family's posts scope: this read must hit the
	// backing store again and observe the new post, not the cached snapshot.
	after, err := svc.ListPosts(ctx, listReq)
	require.NoError(t, err)
	require.Len(t, after.Posts, 2)
	assert.Equal(t, "world", after.Posts[0].Body)

	client.AssertNumberOfCalls(t, "Select", 2)
}

func TestService_WriteDoesNotInvalidateOtherFamilies(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()

	client.On("Select", mock.Anything, mock.MatchedBy(func(req *familydb.SelectRequest) bool {
		return req.Filters["family_id"] == "42"
	})).Return(&familydb.SelectResponse{
		Rows: []familydb.Row{postRow("p1", "42", "hello")},
	}, nil)
	client.On("Insert", mock.Anything, mock.Anything).Return(&familydb.InsertResponse{
		Row: postRow("p9", "99", "other family"),
	}, nil)

	listReq := &service.ListPostsRequest{FamilyID: "42", Page: 1, PageSize: 20}

	_, err := svc.ListPosts(ctx, listReq)
	require.NoError(t, err)

	_, err = svc.CreatePost(ctx, &service.CreatePostRequest{
		FamilyID: "99",
		Author:   "dad",
		Body:     "other family",
	})
	require.NoError(t, err)

	_, err = svc.ListPosts(ctx, listReq)
	require.NoError(t, err)

	// Family 42's cache must survive family 99's write.
	client.AssertNumberOfCalls(t, "Select", 1)
}

func TestService_DeletePostInvalidates(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()

	client.On("Select", mock.Anything, mock.Anything).Return(&familydb.SelectResponse{
		Rows: []familydb.Row{postRow("p1", "42", "hello")},
	}, nil).Once()
	client.On("Select", mock.Anything, mock.Anything).Return(&familydb.SelectResponse{
		Rows: []familydb.Row{},
	}, nil).Once()
	client.On("Delete", mock.Anything, mock.Anything).Return(&familydb.DeleteResponse{Deleted: 1}, nil)

	listReq := &service.ListPostsRequest{FamilyID: "42", Page: 1, PageSize: 20}

	_, err := svc.ListPosts(ctx, listReq)
	require.NoError(t, err)

	require.NoError(t, svc.DeletePost(ctx, &service.DeletePostRequest{FamilyID: "42", PostID: "p1"}))

	after, err := svc.ListPosts(ctx, listReq)
	require.NoError(t, err)
	assert.Empty(t, after.Posts)
}

func TestService_ListPostsValidation(t *testing.T) {
	svc, client, _ := newTestService(t)

	_, err := svc.ListPosts(context.Background(), &service.ListPostsRequest{Page: 1, PageSize: 20})
	require.Error(t, err)

	client.AssertNotCalled(t, "Select")
}

func TestService_ListPostsClientError(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()

	client.On("Select", mock.Anything, mock.Anything).Return(nil, errors.New("client failure"))

	listReq := &service.ListPostsRequest{FamilyID: "42", Page: 1, PageSize: 20}

	_, err := svc.ListPosts(ctx, listReq)
	require.Error(t, err)

	// A failed load must not poison the cache: the next read goes back to
	// the backing store instead of finding a cached nil.
	_, err = svc.ListPosts(ctx, listReq)
	require.Error(t, err)
	client.AssertNumberOfCalls(t, "Select", 2)
}

func TestService_UpdateRecipeInvalidatesListAndPoint(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()

	recipeRow := familydb.Row{
		"id":          "r7",
		"family_id":   "42",
		"title":       "pancakes",
		"ingredients": "flour, eggs",
		"updated_at":  "2025-06-01T12:00:00Z",
	}
	updatedRow := familydb.Row{
		"id":          "r7",
		"family_id":   "42",
		"title":       "pancakes v2",
		"ingredients": "flour, eggs, milk",
		"updated_at":  "2025-06-01T13:00:00Z",
	}

	client.On("Select", mock.Anything, mock.Anything).Return(&familydb.SelectResponse{
		Rows: []familydb.Row{recipeRow},
	}, nil).Once()
	client.On("Select", mock.Anything, mock.Anything).Return(&familydb.SelectResponse{
		Rows: []familydb.Row{updatedRow},
	}, nil).Once()
	client.On("Update", mock.Anything, mock.Anything).Return(&familydb.UpdateResponse{
		Rows: []familydb.Row{updatedRow},
	}, nil)

	getReq := &service.GetRecipeRequest{FamilyID: "42", RecipeID: "r7"}

	before, err := svc.GetRecipe(ctx, getReq)
	require.NoError(t, err)
	assert.Equal(t, "pancakes", before.Title)

	updated, err := svc.UpdateRecipe(ctx, &service.UpdateRecipeRequest{
		FamilyID: "42",
		RecipeID: "r7",
		Title:    "pancakes v2",
	})
	require.NoError(t, err)
	assert.Equal(t, "pancakes v2", updated.Title)

	after, err := svc.GetRecipe(ctx, getReq)
	require.NoError(t, err)
	assert.Equal(t, "pancakes v2", after.Title)
}

func TestService_GetRecipeNotFound(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()

	client.On("Select", mock.Anything, mock.Anything).Return(&familydb.SelectResponse{}, nil)

	_, err := svc.GetRecipe(ctx, &service.GetRecipeRequest{FamilyID: "42", RecipeID: "missing"})

	var apiErr *familydb.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestService_VoteInvalidatesPolls(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()

	pollRow := func(votes float64) familydb.Row {
		return familydb.Row{
			"id":          "poll1",
			"family_id":   "42",
			"question":    "pizza friday?",
			"total_votes": votes,
			"created_at":  "2025-06-01T12:00:00Z",
		}
	}

	client.On("Select", mock.Anything, mock.Anything).Return(&familydb.SelectResponse{
		Rows: []familydb.Row{pollRow(2)},
	}, nil).Once()
	client.On("Select", mock.Anything, mock.Anything).Return(&familydb.SelectResponse{
		Rows: []familydb.Row{pollRow(3)},
	}, nil).Once()
	client.On("Insert", mock.Anything, mock.Anything).Return(&familydb.InsertResponse{
		Row: familydb.Row{"id": "v1"},
	}, nil)

	listReq := &service.ListPollsRequest{FamilyID: "42"}

	before, err := svc.ListPolls(ctx, listReq)
	require.NoError(t, err)
	assert.Equal(t, int64(2), before.Polls[0].TotalVotes)

	require.NoError(t, svc.Vote(ctx, &service.VoteRequest{
		FamilyID: "42",
		PollID:   "poll1",
		Member:   "kid",
		Option:   "yes",
	}))

	after, err := svc.ListPolls(ctx, listReq)
	require.NoError(t, err)
	assert.Equal(t, int64(3), after.Polls[0].TotalVotes)
}

func TestService_CreatePostNotifies(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	client := new(mockFamilyDBClient)
	store := cache.NewMemory(cache.Config{Capacity: 256, DefaultTTL: time.Minute})
	notifier := &stubNotifier{jobs: make(chan *worker.Notification, 1)}
	svc := service.NewFamilyService(context.Background(), logger, client, store, notifier)

	client.On("Insert", mock.Anything, mock.Anything).Return(&familydb.InsertResponse{
		Row: postRow("p1", "42", "hello"),
	}, nil)

	_, err := svc.CreatePost(context.Background(), &service.CreatePostRequest{
		FamilyID: "42",
		Author:   "mom",
		Body:     "hello",
	})
	require.NoError(t, err)

	select {
	case job := <-notifier.jobs:
		assert.Equal(t, "42", job.FamilyID)
		assert.Equal(t, "post_created", job.Event)
	case <-time.After(time.Second):
		t.Fatal("expected a notification to be submitted")
	}
}

func TestService_CacheStats(t *testing.T) {
	svc, client, _ := newTestService(t)
	ctx := context.Background()

	client.On("Select", mock.Anything, mock.Anything).Return(&familydb.SelectResponse{
		Rows: []familydb.Row{postRow("p1", "42", "hello")},
	}, nil)

	listReq := &service.ListPostsRequest{FamilyID: "42", Page: 1, PageSize: 20}
	_, err := svc.ListPosts(ctx, listReq)
	require.NoError(t, err)
	_, err = svc.ListPosts(ctx, listReq)
	require.NoError(t, err)

	stats, err := svc.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Keys)
	assert.GreaterOrEqual(t, stats.Hits, int64(1))
}
