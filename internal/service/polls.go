package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vladislavprovich/familyhub/pkg/cache"
	"github.com/vladislavprovich/familyhub/pkg/client/familydb"
)

// Polls cache for only 30 seconds: vote counts go stale quickly and voting
// invalidates the scope anyway, so the short TTL just bounds staleness for
// votes cast outside this process.

func (s *Service) ListPolls(ctx context.Context, req *ListPollsRequest) (*ListPollsResponse, error) {
	if err := req.ValidateWithContext(ctx); err != nil {
		return nil, err
	}

	key := cache.Key(pollsPrefix, req.FamilyID, "list")

	value, err := s.cache.GetOrLoad(ctx, key, pollsTTL, func(ctx context.Context) (interface{}, error) {
		clientResp, err := s.db.Select(ctx, &familydb.SelectRequest{
			Table:   pollsTable,
			Filters: map[string]string{"family_id": req.FamilyID},
			OrderBy: "created_at.desc",
		})
		if err != nil {
			return nil, err
		}
		return &ListPollsResponse{Polls: pollsFromRows(clientResp.Rows)}, nil
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "service ListPolls", slog.Any("error", err))
		return nil, err
	}

	resp, ok := value.(*ListPollsResponse)
	if !ok {
		return nil, fmt.Errorf("unexpected cached value under %s: %T", key, value)
	}
	return resp, nil
}

func (s *Service) CreatePoll(ctx context.Context, req *CreatePollRequest) (*Poll, error) {
	if err := req.ValidateWithContext(ctx); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "CreatePoll", slog.String("family_id", req.FamilyID))

	clientResp, err := s.db.Insert(ctx, &familydb.InsertRequest{
		Table: pollsTable,
		Row: familydb.Row{
			"family_id": req.FamilyID,
			"question":  req.Question,
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "service client.Insert poll", slog.Any("error", err))
		return nil, err
	}

	s.invalidateScope(ctx, pollsPrefix, req.FamilyID)
	s.notify(req.FamilyID, "poll_created", fmt.Sprintf("New family poll: %s", req.Question))

	poll := pollFromRow(clientResp.Row)
	return &poll, nil
}

func (s *Service) Vote(ctx context.Context, req *VoteRequest) error {
	if err := req.ValidateWithContext(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "Vote",
		slog.String("family_id", req.FamilyID),
		slog.String("poll_id", req.PollID),
	)

	_, err := s.db.Insert(ctx, &familydb.InsertRequest{
		Table: pollVotesTable,
		Row: familydb.Row{
			"family_id": req.FamilyID,
			"poll_id":   req.PollID,
			"member":    req.Member,
			"option":    req.Option,
		},
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "service client.Insert vote", slog.Any("error", err))
		return err
	}

	s.invalidateScope(ctx, pollsPrefix, req.FamilyID)
	return nil
}
