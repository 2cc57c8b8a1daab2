package kvstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "offline_changes")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Set(ctx, "offline_changes", []byte(`[1]`)))
	got, err := s.Get(ctx, "offline_changes")
	require.NoError(t, err)
	assert.Equal(t, `[1]`, string(got))

	require.NoError(t, s.Set(ctx, "offline_changes", []byte(`[1,2]`)))
	got, err = s.Get(ctx, "offline_changes")
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, string(got))

	require.NoError(t, s.Set(ctx, "other", []byte(`x`)))
	require.NoError(t, s.Delete(ctx, "offline_changes"))
	_, err = s.Get(ctx, "offline_changes")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Delete(ctx, "offline_changes"))

	got, err = s.Get(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}

func TestFileStore(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "state"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestFileStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "k/with/slash", []byte("v")))

	s2, err := NewFileStore(dir)
	require.NoError(t, err)
	got, err := s2.Get(ctx, "k/with/slash")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))

	matches, err := filepath.Glob(filepath.Join(dir, ".tmp-*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "temp files must not be left behind")
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "queue.db"))
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
}

func TestSQLiteStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.db")
	ctx := context.Background()

	s1, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s1.Set(ctx, "k", []byte("persisted")))
	require.NoError(t, s1.Close())

	s2, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	defer s2.Close()
	got, err := s2.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(got))
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client, "test:")
	defer s.Close()

	exerciseStore(t, s)
	assert.True(t, mr.Exists("test:other"), "keys must carry the prefix")
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	for _, cfg := range []Config{
		{Backend: "", Dir: t.TempDir()},
		{Backend: BackendSQLite, Dir: t.TempDir()},
		{Backend: BackendRedis, RedisAddr: mr.Addr()},
	} {
		s, err := Open(ctx, cfg)
		require.NoError(t, err, cfg.Backend)
		require.NoError(t, s.Set(ctx, "k", []byte("v")))
		require.NoError(t, s.Close())
	}

	_, err := Open(ctx, Config{Backend: "etcd"})
	assert.Error(t, err)
}

func TestOpenRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := OpenRedis(context.Background(), RedisOptions{Addr: addr})
	assert.Error(t, err)
}
