package services

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"maintenance-system/internal/dto"
	"maintenance-system/internal/entities"
	apperrors "maintenance-system/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeCache struct {
	entries map[string][]byte
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := f.entries[key]
	if !ok {
		return apperrors.ErrNotFound
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.entries[key] = raw
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.entries, key)
	}
	return nil
}

func TestLocationFindIsServedFromCache(t *testing.T) {
	repo := newFakeLocationRepo()
	cache := newFakeCache()
	svc := NewLocationService(repo, newFakeEquipmentRepo(), cache, time.Minute, zap.NewNop())

	id := repo.add("Main", "Library")

	first, err := svc.Find(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Library", first.Name)
	assert.Equal(t, 1, repo.findCalls)

	// Second read hits the cache, not the repository.
	second, err := svc.Find(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, 1, repo.findCalls)
}

func TestLocationUpdateInvalidatesCache(t *testing.T) {
	repo := newFakeLocationRepo()
	cache := newFakeCache()
	svc := NewLocationService(repo, newFakeEquipmentRepo(), cache, time.Minute, zap.NewNop())

	id := repo.add("Main", "Library")
	_, err := svc.Find(context.Background(), id)
	require.NoError(t, err)
	assert.NotEmpty(t, cache.entries)

	name := "Media Center"
	repo.items[id].Name = name
	_, err = svc.Update(context.Background(), id, dto.UpdateLocationDTO{Name: &name})
	require.NoError(t, err)

	// The stale entry is gone; the next read goes back to the repository.
	got, err := svc.Find(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
}

func TestLocationDeleteBlockedWhileEquipmentAssigned(t *testing.T) {
	repo := newFakeLocationRepo()
	equipment := newFakeEquipmentRepo()
	svc := NewLocationService(repo, equipment, newFakeCache(), time.Minute, zap.NewNop())

	id := repo.add("Main", "Workshop")
	eqID := equipment.add(entities.Equipment{Name: "Lathe", TagNumber: "EQ-100", LocationID: &id})

	err := svc.Delete(context.Background(), id)
	require.ErrorIs(t, err, apperrors.ErrConflict)
	_, stillThere := repo.items[id]
	assert.True(t, stillThere)

	// Once the equipment is gone the location can be removed.
	require.NoError(t, equipment.SoftDelete(context.Background(), eqID))
	require.NoError(t, svc.Delete(context.Background(), id))
	_, stillThere = repo.items[id]
	assert.False(t, stillThere)
}
