package listings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/stavangersaad-create/Baggage-Buddy-Website-Concept/internal/kvstore"
)

var ErrNotFound = errors.New("listing not found")

const keyPrefix = "listing:"

// ListingUseCase manages airline capacity listings. Reads are public,
// writes require an authenticated admin. Records are schemaless JSON so
// partial patches of any shape merge over what is stored.
type ListingUseCase interface {
	List(ctx context.Context) ([]json.RawMessage, error)
	Create(ctx context.Context, creatorID string, listing map[string]any) (string, error)
	Update(ctx context.Context, id string, patch map[string]any) error
	Delete(ctx context.Context, id string) error
}

// Cache fronts the public list read. All methods are best-effort.
type Cache interface {
	GetListings(ctx context.Context) ([]json.RawMessage, error)
	SetListings(ctx context.Context, listings []json.RawMessage) error
	InvalidateListings(ctx context.Context) error
}

type ListingService struct {
	store  kvstore.Store
	cache  Cache
	logger *zap.Logger
	now    func() time.Time
}

func NewListingService(store kvstore.Store, cache Cache, logger *zap.Logger) *ListingService {
	return &ListingService{store: store, cache: cache, logger: logger, now: time.Now}
}

func (s *ListingService) List(ctx context.Context) ([]json.RawMessage, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetListings(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	entries, err := s.store.GetByPrefix(ctx, keyPrefix)
	if err != nil {
		return nil, err
	}

	listings := make([]json.RawMessage, 0, len(entries))
	for _, e := range entries {
		listings = append(listings, e.Value)
	}

	if s.cache != nil {
		if err := s.cache.SetListings(ctx, listings); err != nil {
			s.logger.Warn("listings cache write failed", zap.Error(err))
		}
	}
	return listings, nil
}

func (s *ListingService) Create(ctx context.Context, creatorID string, listing map[string]any) (string, error) {
	id := newKey()

	record := make(map[string]any, len(listing)+3)
	for k, v := range listing {
		record[k] = v
	}
	record["id"] = id
	record["createdAt"] = s.now().UTC().Format(time.RFC3339Nano)
	record["createdBy"] = creatorID

	if err := s.store.Set(ctx, id, record); err != nil {
		return "", err
	}
	s.invalidate(ctx)
	return id, nil
}

func (s *ListingService) Update(ctx context.Context, id string, patch map[string]any) error {
	key := normalizeKey(id)

	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	var existing map[string]any
	if err := json.Unmarshal(raw, &existing); err != nil {
		return fmt.Errorf("decode listing %s: %w", key, err)
	}

	merged := deepMerge(existing, patch)
	merged["updatedAt"] = s.now().UTC().Format(time.RFC3339Nano)

	if err := s.store.Set(ctx, key, merged); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Delete is unconditional: removing an absent listing is a no-op success.
func (s *ListingService) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, normalizeKey(id)); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ListingService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateListings(ctx); err != nil {
		s.logger.Warn("listings cache invalidation failed", zap.Error(err))
	}
}

// deepMerge lays patch over dst recursively: nested objects merge, every
// other value is replaced. Neither input map is mutated.
func deepMerge(dst, patch map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(patch))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range patch {
		patchMap, patchOK := v.(map[string]any)
		dstMap, dstOK := out[k].(map[string]any)
		if patchOK && dstOK {
			out[k] = deepMerge(dstMap, patchMap)
			continue
		}
		out[k] = v
	}
	return out
}

// Listing ids double as store keys; accept them with or without prefix.
func normalizeKey(id string) string {
	if strings.HasPrefix(id, keyPrefix) {
		return id
	}
	return keyPrefix + id
}

func newKey() string {
	return fmt.Sprintf("%s%d-%s", keyPrefix, time.Now().UnixMilli(), randSuffix(9))
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}

var _ ListingUseCase = (*ListingService)(nil)
