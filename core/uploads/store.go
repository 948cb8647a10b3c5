package uploads

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/CrestNiraj12/reelhire/domain"
)

// StorageKey is the fixed key the tracked records are persisted under.
const StorageKey = "reelhire.localVideos"

// ErrMalformedState is returned alongside an empty result when the persisted
// value cannot be decoded.
var ErrMalformedState = errors.New("malformed persisted upload state")

// KV is the key/value storage the tracker persists into.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Store persists the tracked records as one JSON document.
type Store struct {
	kv KV
}

// NewStore persists into kv.
func NewStore(kv KV) *Store {
	return &Store{kv: kv}
}

// Load returns the persisted records. Missing state is empty; malformed state
// is empty and reported with ErrMalformedState.
func (s *Store) Load(ctx context.Context) ([]domain.VideoRecord, error) {
	raw, err := s.kv.Get(ctx, StorageKey)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var videos []domain.VideoRecord
	if err := json.Unmarshal(raw, &videos); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	out := videos[:0]
	seen := make(map[string]struct{}, len(videos))
	for _, v := range videos {
		if v.ID == "" {
			continue
		}
		if _, ok := seen[v.ID]; ok {
			continue
		}
		seen[v.ID] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// Save replaces the persisted records.
func (s *Store) Save(ctx context.Context, videos []domain.VideoRecord) error {
	if videos == nil {
		videos = []domain.VideoRecord{}
	}
	raw, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("encode upload state: %w", err)
	}
	return s.kv.Set(ctx, StorageKey, raw)
}
