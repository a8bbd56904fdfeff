package cas_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hdrcost/internal/adapters/cas"
	"go.trai.ch/hdrcost/internal/core/domain"
)

func TestStore_PutGet(t *testing.T) {
	t.Parallel()

	store := cas.NewStore(t.TempDir())
	fp := domain.NewFingerprint("trace", "g++", "a.cpp")

	t.Run("miss", func(t *testing.T) {
		data, ok, err := store.Get(domain.NewFingerprint("trace", "missing"))
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, data)
	})

	t.Run("put and get", func(t *testing.T) {
		require.NoError(t, store.Put(fp, []byte(". a.h\n")))

		data, ok, err := store.Get(fp)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, ". a.h\n", string(data))
	})

	t.Run("sharded layout", func(t *testing.T) {
		_, err := os.Stat(filepath.Join(store.Root(), fp.Shard(), fp.String()))
		require.NoError(t, err)

		entries, err := os.ReadDir(filepath.Join(store.Root(), fp.Shard()))
		require.NoError(t, err)
		for _, e := range entries {
			assert.NotContains(t, e.Name(), ".tmp-", "temp files must not survive a put")
		}
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, store.Put(fp, []byte("new")))
		data, ok, err := store.Get(fp)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "new", string(data))
	})
}

func TestStore_Disabled(t *testing.T) {
	t.Parallel()

	store := cas.NewStore("")
	fp := domain.NewFingerprint("time", "x.h")

	require.NoError(t, store.Put(fp, []byte("v")))
	_, ok, err := store.Get(fp)
	require.NoError(t, err)
	assert.False(t, ok)

	calls := 0
	compute := func(context.Context) ([]byte, error) {
		calls++
		return []byte("v"), nil
	}
	for range 2 {
		data, err := store.GetOrCompute(context.Background(), fp, compute)
		require.NoError(t, err)
		assert.Equal(t, "v", string(data))
	}
	assert.Equal(t, 2, calls)
}

func TestStore_GetOrCompute(t *testing.T) {
	t.Parallel()

	t.Run("computes once across runs", func(t *testing.T) {
		dir := t.TempDir()
		fp := domain.NewFingerprint("time", "a.h")

		calls := 0
		compute := func(context.Context) ([]byte, error) {
			calls++
			return []byte(`{"exit_status":0}`), nil
		}

		data, err := cas.NewStore(dir).GetOrCompute(context.Background(), fp, compute)
		require.NoError(t, err)
		assert.JSONEq(t, `{"exit_status":0}`, string(data))

		// A fresh store over the same directory sees the persisted entry.
		data, err = cas.NewStore(dir).GetOrCompute(context.Background(), fp, compute)
		require.NoError(t, err)
		assert.JSONEq(t, `{"exit_status":0}`, string(data))
		assert.Equal(t, 1, calls)
	})

	t.Run("failed compute is not stored", func(t *testing.T) {
		store := cas.NewStore(t.TempDir())
		fp := domain.NewFingerprint("trace", "broken.cpp")
		boom := errors.New("boom")

		_, err := store.GetOrCompute(context.Background(), fp, func(context.Context) ([]byte, error) {
			return nil, boom
		})
		require.ErrorIs(t, err, boom)

		_, ok, err := store.Get(fp)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("concurrent callers share one compute", func(t *testing.T) {
		store := cas.NewStore(t.TempDir())
		fp := domain.NewFingerprint("time", "slow.h")

		var calls atomic.Int32
		release := make(chan struct{})
		compute := func(context.Context) ([]byte, error) {
			calls.Add(1)
			<-release
			return []byte("done"), nil
		}

		const callers = 8
		var wg sync.WaitGroup
		results := make([]string, callers)
		for i := range callers {
			wg.Go(func() {
				data, err := store.GetOrCompute(context.Background(), fp, compute)
				assert.NoError(t, err)
				results[i] = string(data)
			})
		}

		// Give every caller a chance to join the in-flight compute.
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), calls.Load())
		for _, r := range results {
			assert.Equal(t, "done", r)
		}
	})
}

func TestStore_GetValidOrCompute(t *testing.T) {
	t.Parallel()

	store := cas.NewStore(t.TempDir())
	fp := domain.NewFingerprint("trace", "g++", "a.cpp")
	require.NoError(t, store.Put(fp, []byte("v1")))

	calls := 0
	compute := func(context.Context) ([]byte, error) {
		calls++
		return []byte("v2"), nil
	}
	current := func(data []byte) bool { return string(data) == "v2" }

	// The stored entry is rejected, recomputed and replaced.
	data, err := store.GetValidOrCompute(context.Background(), fp, current, compute)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	stored, ok, err := store.Get(fp)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "v2", string(stored))

	// The replacement is accepted without another compute.
	data, err = store.GetValidOrCompute(context.Background(), fp, current, compute)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))
	assert.Equal(t, 1, calls)
}
