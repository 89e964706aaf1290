package blacklist

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	data map[string]int // key -> ttl seconds
}

func (m *memKV) SetNX(_ context.Context, key string, _ []byte, ttlSeconds int) (bool, error) {
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = ttlSeconds
	return true, nil
}

func (m *memKV) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func TestRevokeAndIsRevoked(t *testing.T) {
	t.Parallel()

	kv := &memKV{data: map[string]int{}}
	s := NewStore(kv)

	require.NoError(t, s.Revoke(context.Background(), "jti-1", time.Now().Add(time.Hour)))

	revoked, err := s.IsRevoked(context.Background(), "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = s.IsRevoked(context.Background(), "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevoke_TTLTracksExpiry(t *testing.T) {
	t.Parallel()

	kv := &memKV{data: map[string]int{}}
	s := NewStore(kv)

	require.NoError(t, s.Revoke(context.Background(), "jti-long", time.Now().Add(2*time.Hour)))

	var ttl int
	for _, v := range kv.data {
		ttl = v
	}
	assert.InDelta(t, 2*3600, ttl, 5)
}

func TestRevoke_PastExpiryStillHeldBriefly(t *testing.T) {
	t.Parallel()

	kv := &memKV{data: map[string]int{}}
	s := NewStore(kv)

	require.NoError(t, s.Revoke(context.Background(), "jti-old", time.Now().Add(-time.Hour)))

	revoked, err := s.IsRevoked(context.Background(), "jti-old")
	require.NoError(t, err)
	assert.True(t, revoked)
}
