package entries

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/avolkovs/daykeeper/internal/common"
	"github.com/avolkovs/daykeeper/internal/dday"
	"github.com/avolkovs/daykeeper/internal/logging"
)

type Service struct {
	repo   Repository
	hub    *Hub
	logger logging.Logger
}

func NewService(repo Repository, hub *Hub, logger logging.Logger) *Service {
	return &Service{
		repo:   repo,
		hub:    hub,
		logger: logger.With("component", "entries"),
	}
}

func (s *Service) List(ctx context.Context, ownerID string) ([]Entry, error) {
	result, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error(ctx, "list failed", "owner", ownerID, "err", err)
		return nil, common.ErrInternal
	}
	return result, nil
}

// Create validates, stores and broadcasts. The date must be a real calendar
// date in wire format; titles only need to be non-empty.
func (s *Service) Create(ctx context.Context, ownerID, title, date string) (*Entry, error) {
	if title == "" {
		return nil, fmt.Errorf("title: %w", common.ErrValidation)
	}
	if _, err := dday.ParseDate(date); err != nil {
		return nil, fmt.Errorf("date %q: %w", date, common.ErrValidation)
	}

	entry := &Entry{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		Title:   title,
		Date:    date,
	}
	entry, err := s.repo.Create(ctx, entry)
	if err != nil {
		s.logger.Error(ctx, "create failed", "owner", ownerID, "err", err)
		return nil, common.ErrInternal
	}

	s.broadcast(ctx, ownerID)
	return entry, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrNotFound
		}
		s.logger.Error(ctx, "delete failed", "owner", ownerID, "id", id, "err", err)
		return common.ErrInternal
	}

	s.broadcast(ctx, ownerID)
	return nil
}

// Watch registers a snapshot watcher for ownerID.
func (s *Service) Watch(ownerID string) (<-chan []Entry, func()) {
	return s.hub.Subscribe(ownerID)
}

func (s *Service) broadcast(ctx context.Context, ownerID string) {
	snapshot, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.logger.Error(ctx, "broadcast snapshot failed", "owner", ownerID, "err", err)
		return
	}
	s.hub.Broadcast(ownerID, snapshot)
}
