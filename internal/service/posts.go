package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vladislavprovich/familyhub/pkg/cache"
	"github.com/vladislavprovich/familyhub/pkg/client/familydb"
)

// ListPosts returns one page of the family feed, cache-aside under
// "family_posts_{familyID}_{page}_{pageSize}". Concurrent misses for the
// same page share a single remote query.
func (s *Service) ListPosts(ctx context.Context, req *ListPostsRequest) (*ListPostsResponse, error) {
	if err := req.ValidateWithContext(ctx); err != nil {
		return nil, err
	}

	key := cache.Key(postsPrefix, req.FamilyID, req.Page, req.PageSize)

	value, err := s.cache.GetOrLoad(ctx, key, postsTTL, func(ctx context.Context) (interface{}, error) {
		clientResp, err := s.db.Select(ctx, &familydb.SelectRequest{
			Table:   postsTable,
			Filters: map[string]string{"family_id": req.FamilyID},
			OrderBy: "created_at.desc",
			Limit:   req.PageSize,
			Offset:  (req.Page - 1) * req.PageSize,
		})
		if err != nil {
			return nil, err
		}
		return &ListPostsResponse{Posts: postsFromRows(clientResp.Rows)}, nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "service ListPosts", slog.Any("error", err))
		return nil, err
	}

	resp, ok := value.(*ListPostsResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value under %s: %T", key, value)
	}
	return resp, nil
}

func (s *Service) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	if err := req.ValidateWithContext(ctx); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "CreatePost", slog.String("family_id", req.FamilyID))

	clientResp, err := s.db.Insert(ctx, &familydb.InsertRequest{
		Table: postsTable,
		Row: familydb.Row{
			"family_id": req.FamilyID,
			"author":    req.Author,
			"body":      req.Body,
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "service client.Insert post", slog.Any("error", err))
		return nil, err
	}

	s.invalidateScope(ctx, postsPrefix, req.FamilyID)
	s.notify(req.FamilyID, "post_created", fmt.Sprintf("%s shared a new post", req.Author))

	post := postFromRow(clientResp.Row)
	return &post, nil
}

func (s *Service) DeletePost(ctx context.Context, req *DeletePostRequest) error {
	if err := req.ValidateWithContext(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "DeletePost",
		slog.String("family_id", req.FamilyID),
		slog.String("post_id", req.PostID),
	)

	_, err := s.db.Delete(ctx, &familydb.DeleteRequest{
		Table: postsTable,
		Filters: map[string]string{
			"id":        req.PostID,
			"family_id": req.FamilyID,
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "service client.Delete post", slog.Any("error", err))
		return err
	}

	s.invalidateScope(ctx, postsPrefix, req.FamilyID)
	return nil
}
