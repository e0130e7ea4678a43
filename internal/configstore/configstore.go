// Package configstore fronts the Configuration blob table with a short-TTL
// read-through cache. A burst of renders re-reading the same selection map or
// scenario list costs one repository round-trip, not one per caller.
package configstore

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/jgmsoftworks/calcula-ai-sub001/internal/cache"
	"github.com/jgmsoftworks/calcula-ai-sub001/internal/models"
)

// Backend is the slice of the repository the store needs.
type Backend interface {
	GetConfiguration(ctx context.Context, tenantID, typ string) (*models.Configuration, error)
	UpsertConfiguration(ctx context.Context, item *models.Configuration) error
	DeleteConfiguration(ctx context.Context, tenantID, typ string) error
}

const DefaultTTL = 30 * time.Second

type Store struct {
	Repo   Backend
	Cache  cache.Store
	TTL    time.Duration
	Logger *zap.Logger

	mu      sync.Mutex
	pending map[string]*inflight
}

type inflight struct {
	done  chan struct{}
	value []byte
	found bool
	err   error
}

func New(repo Backend, c cache.Store, ttl time.Duration, logger *zap.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if c == nil {
		c = cache.NewMemoryStore()
	}
	return &Store{
		Repo:    repo,
		Cache:   c,
		TTL:     ttl,
		Logger:  logger,
		pending: map[string]*inflight{},
	}
}

// Get returns the raw blob for (tenant, type), or found=false when no blob
// has ever been saved. Concurrent Gets for the same key while a fetch is in
// flight share that single fetch.
func (s *Store) Get(ctx context.Context, tenantID, typ string) ([]byte, bool, error) {
	key := cacheKey(tenantID, typ)

	if b, ok, err := s.Cache.Get(ctx, key); err == nil && ok {
		return b, len(b) > 0, nil
	}

	s.mu.Lock()
	if fl, ok := s.pending[key]; ok {
		s.mu.Unlock()
		select {
		case <-fl.done:
			return fl.value, fl.found, fl.err
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}
	fl := &inflight{done: make(chan struct{})}
	s.pending[key] = fl
	s.mu.Unlock()

	fl.value, fl.found, fl.err = s.fetch(ctx, tenantID, typ)
	close(fl.done)

	s.mu.Lock()
	delete(s.pending, key)
	s.mu.Unlock()

	return fl.value, fl.found, fl.err
}

func (s *Store) fetch(ctx context.Context, tenantID, typ string) ([]byte, bool, error) {
	item, err := s.Repo.GetConfiguration(ctx, tenantID, typ)
	if err != nil {
		return nil, false, err
	}
	key := cacheKey(tenantID, typ)
	if item == nil {
		// Cache the absence too, so repeated reads of a never-saved blob
		// do not hammer the repository.
		if err := s.Cache.Set(ctx, key, nil, s.TTL); err != nil && s.Logger != nil {
			s.Logger.Warn("configstore cache set failed", zap.Error(err))
		}
		return nil, false, nil
	}
	b := []byte(item.Value)
	if err := s.Cache.Set(ctx, key, b, s.TTL); err != nil && s.Logger != nil {
		s.Logger.Warn("configstore cache set failed", zap.Error(err))
	}
	return b, true, nil
}

// Put overwrites the blob wholesale and re-populates the cache entry with the
// just-written value.
func (s *Store) Put(ctx context.Context, tenantID, typ string, blob []byte) error {
	item := &models.Configuration{
		TenantID:  tenantID,
		Type:      typ,
		Value:     datatypes.JSON(blob),
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.Repo.UpsertConfiguration(ctx, item); err != nil {
		return err
	}
	if err := s.Cache.Set(ctx, cacheKey(tenantID, typ), blob, s.TTL); err != nil && s.Logger != nil {
		s.Logger.Warn("configstore cache set failed", zap.Error(err))
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, tenantID, typ string) error {
	if err := s.Repo.DeleteConfiguration(ctx, tenantID, typ); err != nil {
		return err
	}
	if err := s.Cache.Delete(ctx, cacheKey(tenantID, typ)); err != nil && s.Logger != nil {
		s.Logger.Warn("configstore cache delete failed", zap.Error(err))
	}
	return nil
}

// GetJSON unmarshals the blob into dest; found=false leaves dest untouched.
func (s *Store) GetJSON(ctx context.Context, tenantID, typ string, dest any) (bool, error) {
	b, found, err := s.Get(ctx, tenantID, typ)
	if err != nil || !found {
		return false, err
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) PutJSON(ctx context.Context, tenantID, typ string, value any) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.Put(ctx, tenantID, typ, b)
}

func cacheKey(tenantID, typ string) string {
	return "cfg:" + tenantID + ":" + typ
}
