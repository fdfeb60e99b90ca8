// Package entitlement implementa el servicio de consulta del registro
// de suscriptor con cache, usado por el control de acceso y por el API
// de facturación.
package entitlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/juanluis-911/PulsoAzul-sub000/internal/entitlement"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/models"
	"github.com/juanluis-911/PulsoAzul-sub000/internal/storage/repository"
)

const cacheTTL = 5 * time.Minute

// SubscriberRepository describe el acceso al almacén de suscriptores.
type SubscriberRepository interface {
	// GetSubscriber devuelve el registro o ErrSubscriberNotFound.
	GetSubscriber(ctx context.Context, accountUID string) (*models.Subscriber, error)
}

// Cache describe el cache de registros de suscriptor.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service resuelve la titularidad de acceso de una cuenta.
type Service struct {
	repo  SubscriberRepository
	cache Cache
	log   *slog.Logger
}

// NewService crea el servicio de titularidad.
func NewService(repo SubscriberRepository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func cacheKey(accountUID string) string {
	return fmt.Sprintf("subscriber:%s", accountUID)
}

// GetSubscriber devuelve el registro de suscriptor de la cuenta usando
// el cache. La ausencia de registro se devuelve como (nil, nil) para
// que el llamante la distinga de un fallo de infraestructura.
func (s *Service) GetSubscriber(ctx context.Context, accountUID string) (*models.Subscriber, error) {
	var cached *models.Subscriber
	key := cacheKey(accountUID)
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("subscriber cache read failed", slog.String("key", key), slog.Any("err", err))
	}
	if found && cached != nil {
		return cached, nil
	}

	sub, err := s.repo.GetSubscriber(ctx, accountUID)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriberNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := s.cache.Set(ctx, key, sub, cacheTTL); err != nil {
		s.log.Warn("failed to cache subscriber", slog.String("key", key), slog.Any("err", err))
	}
	return sub, nil
}

// Check resuelve la decisión de acceso de la cuenta en el instante now.
// Un error significa fallo de infraestructura, no denegación.
func (s *Service) Check(ctx context.Context, accountUID string, now time.Time) (entitlement.Decision, error) {
	sub, err := s.GetSubscriber(ctx, accountUID)
	if err != nil {
		return entitlement.Decision{}, err
	}
	return entitlement.Resolve(sub, now), nil
}

// InvalidateSubscriber elimina el registro cacheado de la cuenta. Lo
// invoca el servicio de facturación tras cada escritura por webhook.
func (s *Service) InvalidateSubscriber(ctx context.Context, accountUID string) {
	if err := s.cache.Invalidate(ctx, cacheKey(accountUID)); err != nil {
		s.log.Warn("failed to invalidate subscriber cache", slog.String("account_uid", accountUID), slog.Any("err", err))
	}
}
