package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"github.com/subkultur/teilwas-bot/internal/platform/logger"
	"github.com/subkultur/teilwas-bot/internal/repository"
)

type mockListingRepo struct {
	mock.Mock
}

func (m *mockListingRepo) Insert(ctx context.Context, listing *entity.Listing) (string, error) {
	args := m.Called(ctx, listing)
	return args.String(0), args.Error(1)
}

func (m *mockListingRepo) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockListingRepo) ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Listing, error) {
	args := m.Called(ctx, ownerID)
	if listings, ok := args.Get(0).([]*entity.Listing); ok {
		return listings, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockListingRepo) FindMatching(ctx context.Context, q repository.ListingQuery) ([]*entity.Listing, error) {
	args := m.Called(ctx, q)
	if listings, ok := args.Get(0).([]*entity.Listing); ok {
		return listings, args.Error(1)
	}
	return nil, args.Error(1)
}

type capturingPublisher struct {
	subjects []string
	messages []interface{}
	err      error
}

func (p *capturingPublisher) Publish(_ context.Context, subject string, message interface{}) error {
	if p.err != nil {
		return p.err
	}
	p.subjects = append(p.subjects, subject)
	p.messages = append(p.messages, message)
	return nil
}

func newTestListing() *entity.Listing {
	return &entity.Listing{
		OwnerID:     1,
		OwnerLocale: "en",
		Category:    entity.CategoryFood,
		Direction:   entity.DirectionOffer,
		Location:    entity.Location{Latitude: 52.52, Longitude: 13.405},
		Description: "free apples",
		ExpiresAt:   entity.NeverExpires,
	}
}

func TestListingServiceAdd(t *testing.T) {
	repo := new(mockListingRepo)
	publisher := &capturingPublisher{}
	svc := NewListingService(repo, publisher, logger.NewNop())

	repo.On("Insert", mock.Anything, mock.Anything).Return("listing-1", nil)

	listing := newTestListing()
	require.NoError(t, svc.Add(context.Background(), listing))

	assert.Equal(t, listing.CreatedAt, listing.CreatedAt.UTC().Truncate(24*time.Hour))

	require.Len(t, publisher.messages, 1)
	assert.Equal(t, SubjectListingCreated, publisher.subjects[0])
	event, ok := publisher.messages[0].(ListingCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, "listing-1", event.ListingID)
	assert.Equal(t, listing.OwnerID, event.OwnerID)
	assert.Equal(t, listing.Category, event.Category)
	assert.NotEmpty(t, event.EventID)
	repo.AssertExpectations(t)
}

func TestListingServiceAddInsertFailure(t *testing.T) {
	repo := new(mockListingRepo)
	publisher := &capturingPublisher{}
	svc := NewListingService(repo, publisher, logger.NewNop())

	repo.On("Insert", mock.Anything, mock.Anything).Return("", fmt.Errorf("write failed"))

	err := svc.Add(context.Background(), newTestListing())
	require.Error(t, err)
	assert.Empty(t, publisher.messages, "no event without a committed listing")
}

func TestListingServiceAddPublishFailureIsNotFatal(t *testing.T) {
	repo := new(mockListingRepo)
	publisher := &capturingPublisher{err: fmt.Errorf("broker down")}
	svc := NewListingService(repo, publisher, logger.NewNop())

	repo.On("Insert", mock.Anything, mock.Anything).Return("listing-1", nil)

	assert.NoError(t, svc.Add(context.Background(), newTestListing()))
}

func TestListingServiceSearch(t *testing.T) {
	repo := new(mockListingRepo)
	svc := NewListingService(repo, &capturingPublisher{}, logger.NewNop())

	q := repository.ListingQuery{RequesterID: 1, Category: entity.CategoryAll, Direction: entity.DirectionAll}
	repo.On("FindMatching", mock.Anything, q).Return([]*entity.Listing{{ID: "listing-1"}}, nil)

	results, err := svc.Search(context.Background(), q)
	require.NoError(t, err)
	assert.Len(t, results, 1)
	repo.AssertExpectations(t)
}

func TestListingServiceDelete(t *testing.T) {
	repo := new(mockListingRepo)
	svc := NewListingService(repo, &capturingPublisher{}, logger.NewNop())

	repo.On("Delete", mock.Anything, "listing-1").Return(nil)
	assert.NoError(t, svc.Delete(context.Background(), "listing-1"))
	repo.AssertExpectations(t)
}
