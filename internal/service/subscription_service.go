package service

import (
	"context"
	"fmt"
	"time"

	"github.com/subkultur/teilwas-bot/internal/domain/entity"
	"github.com/subkultur/teilwas-bot/internal/platform/logger"
	"github.com/subkultur/teilwas-bot/internal/repository"
)

type SubscriptionService struct {
	repo repository.SubscriptionRepository
	log  logger.Logger
}

func NewSubscriptionService(repo repository.SubscriptionRepository, log logger.Logger) *SubscriptionService {
	return &SubscriptionService{repo: repo, log: log}
}

func (s *SubscriptionService) Subscribe(ctx context.Context, sub *entity.Subscription) error {
	sub.CreatedAt = time.Now().UTC()

	id, err := s.repo.Insert(ctx, sub)
	if err != nil {
		s.log.Errorf("SubscriptionService.Subscribe: insert failed for owner %d: %v", sub.OwnerID, err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	s.log.Infof("SubscriptionService.Subscribe: subscription %s created by owner %d", id, sub.OwnerID)
	return nil
}

func (s *SubscriptionService) ListOwn(ctx context.Context, ownerID int64) ([]*entity.Subscription, error) {
	subs, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		s.log.Errorf("SubscriptionService.ListOwn: failed for owner %d: %v", ownerID, err)
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

func (s *SubscriptionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Errorf("SubscriptionService.Delete: failed for subscription %s: %v", id, err)
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	s.log.Infof("SubscriptionService.Delete: subscription %s deleted", id)
	return nil
}
