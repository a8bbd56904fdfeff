package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hdrcost/internal/adapters/watcher"
)

type batches struct {
	mu   sync.Mutex
	runs [][]string
}

func (b *batches) record(paths []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.runs = append(b.runs, paths)
}

func (b *batches) get() [][]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([][]string(nil), b.runs...)
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got batches
		d := watcher.NewDebouncer(100*time.Millisecond, got.record)

		d.Add("/project/src/b.cpp")
		d.Add("/project/include/a.h")
		time.Sleep(50 * time.Millisecond)
		d.Add("/project/src/b.cpp")

		time.Sleep(80 * time.Millisecond)
		synctest.Wait()
		assert.Empty(t, got.get(), "window restarts on every add")

		time.Sleep(50 * time.Millisecond)
		synctest.Wait()
		require.Len(t, got.get(), 1)
		assert.Equal(t, []string{"/project/include/a.h", "/project/src/b.cpp"}, got.get()[0])
	})
}

func TestDebouncer_SeparateBursts(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got batches
		d := watcher.NewDebouncer(100*time.Millisecond, got.record)

		d.Add("/a.h")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		d.Add("/b.h")
		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		assert.Equal(t, [][]string{{"/a.h"}, {"/b.h"}}, got.get())
	})
}

func TestDebouncer_Flush(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got batches
		d := watcher.NewDebouncer(time.Hour, got.record)

		d.Add("/x.h")
		d.Flush()
		assert.Equal(t, [][]string{{"/x.h"}}, got.get())

		// Nothing pending: no callback.
		d.Flush()
		assert.Len(t, got.get(), 1)
	})
}

func TestDebouncer_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var got batches
		d := watcher.NewDebouncer(100*time.Millisecond, got.record)

		d.Add("/x.h")
		d.Stop()
		time.Sleep(200 * time.Millisecond)
		synctest.Wait()

		assert.Empty(t, got.get())
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		d := watcher.NewDebouncer(10*time.Millisecond, nil)
		d.Add("/x.h")
		time.Sleep(20 * time.Millisecond)
		synctest.Wait()
		d.Flush()
	})
}
