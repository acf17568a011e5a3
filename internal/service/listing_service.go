package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	natsadapter "github.com/subkultur/teilwas-bot/internal/adapter/nats"
	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"github.com/subkultur/teilwas-bot/internal/platform/logger"
	"github.com/subkultur/teilwas-bot/internal/repository"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("teilwas-bot/service")

type ListingService struct {
	repo      repository.ListingRepository
	publisher natsadapter.MessagePublisher
	log       logger.Logger
}

func NewListingService(repo repository.ListingRepository, publisher natsadapter.MessagePublisher, log logger.Logger) *ListingService {
	return &ListingService{repo: repo, publisher: publisher, log: log}
}

// Add commits the listing and emits a listing.created event for the
// notification fan-out. The event is published only after the commit and is
// not transactional with it; a publish failure is logged, not returned, so
// the user's add still succeeds.
func (s *ListingService) Add(ctx context.Context, listing *entity.Listing) error {
	ctx, span := tracer.Start(ctx, "ListingService.Add")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("owner_id", listing.OwnerID),
		attribute.String("category", string(listing.Category)),
	)

	listing.CreatedAt = time.Now().UTC().Truncate(24 * time.Hour)

	id, err := s.repo.Insert(ctx, listing)
	if err != nil {
		s.log.Errorf("ListingService.Add: insert failed for owner %d: %v", listing.OwnerID, err)
		return fmt.Errorf("failed to add listing: %w", err)
	}
	s.log.Infof("ListingService.Add: listing %s created by owner %d", id, listing.OwnerID)

	event := ListingCreatedEvent{
		EventID:     uuid.New().String(),
		ListingID:   id,
		OwnerID:     listing.OwnerID,
		OwnerLocale: listing.OwnerLocale,
		Category:    listing.Category,
		Direction:   listing.Direction,
		Location:    listing.Location,
		Description: listing.Description,
		ExpiresAt:   listing.ExpiresAt,
		CreatedAt:   listing.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, SubjectListingCreated, event); err != nil {
		s.log.Errorf("ListingService.Add: failed to publish %s for listing %s: %v", SubjectListingCreated, id, err)
	}
	return nil
}

func (s *ListingService) ListOwn(ctx context.Context, ownerID int64) ([]*entity.Listing, error) {
	listings, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.log.Errorf("ListingService.ListOwn: failed for owner %d: %v", ownerID, err)
		return nil, fmt.Errorf("failed to list own entries: %w", err)
	}
	return listings, nil
}

func (s *ListingService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Errorf("ListingService.Delete: failed for listing %s: %v", id, err)
		return fmt.Errorf("failed to delete listing: %w", err)
	}
	s.log.Infof("ListingService.Delete: listing %s deleted", id)
	return nil
}

// Search runs the matching predicate for an explicit user search. Radius
// arrives already converted to meters; a nil location searches everywhere.
func (s *ListingService) Search(ctx context.Context, q repository.ListingQuery) ([]*entity.Listing, error) {
	ctx, span := tracer.Start(ctx, "ListingService.Search")
	defer span.End()

	listings, err := s.repo.FindMatching(ctx, q)
	if err != nil {
		s.log.Errorf("ListingService.Search: query failed for requester %d: %v", q.RequesterID, err)
		return nil, fmt.Errorf("failed to search listings: %w", err)
	}
	s.log.Infof("ListingService.Search: %d results for requester %d", len(listings), q.RequesterID)
	return listings, nil
}
