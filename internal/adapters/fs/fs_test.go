package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/hdrcost/internal/adapters/fs"
	"go.trai.ch/hdrcost/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_WalkFiles(t *testing.T) {
	// tmp/
	//   .git/config
	//   .hdrcost/cache/a/abc
	//   src/main.cpp
	//   README.md
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".git", "config"), "git config")
	writeFile(t, filepath.Join(tmpDir, domain.HdrcostDirName, "cache", "a", "abc"), "cached")
	writeFile(t, filepath.Join(tmpDir, "src", "main.cpp"), "int main() {}")
	writeFile(t, filepath.Join(tmpDir, "README.md"), "# Readme")

	files := slices.Sorted(fs.NewWalker().WalkFiles(tmpDir))

	assert.Equal(t, []string{
		filepath.Join(tmpDir, "README.md"),
		filepath.Join(tmpDir, "src", "main.cpp"),
	}, files)
}

func TestWalker_WalkFiles_StopsEarly(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"a.cpp", "b.cpp", "c.cpp"} {
		writeFile(t, filepath.Join(tmpDir, name), "")
	}

	count := 0
	for range fs.NewWalker().WalkFiles(tmpDir) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestHasher_FileDigest(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "vector.h")
	writeFile(t, path, "#pragma once\n")

	h := fs.NewHasher()

	got, err := h.FileDigest(path)
	require.NoError(t, err)
	assert.Equal(t, xxhash.Sum64String("#pragma once\n"), got)

	writeFile(t, path, "#pragma once\n// changed\n")
	changed, err := h.FileDigest(path)
	require.NoError(t, err)
	assert.NotEqual(t, got, changed)

	_, err = h.FileDigest(filepath.Join(tmpDir, "missing.h"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrFileOpenFailed.Error())
}

func TestFinder_FindSources(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "src", "a.cpp"), "")
	writeFile(t, filepath.Join(tmpDir, "src", "b.CPP"), "")
	writeFile(t, filepath.Join(tmpDir, "src", "c.cc"), "")
	writeFile(t, filepath.Join(tmpDir, "src", "d.h"), "")
	writeFile(t, filepath.Join(tmpDir, "lib", "e.cc"), "")
	writeFile(t, filepath.Join(tmpDir, "tools", "gen.c"), "")

	finder := fs.NewFinder(fs.NewWalker())

	tests := []struct {
		name  string
		paths []string
		exts  []string
		want  []string
	}{
		{
			name:  "single extension",
			paths: []string{tmpDir},
			exts:  []string{"cpp"},
			want: []string{
				filepath.Join(tmpDir, "src", "a.cpp"),
				filepath.Join(tmpDir, "src", "b.CPP"),
			},
		},
		{
			name:  "several extensions with dots",
			paths: []string{filepath.Join(tmpDir, "src"), filepath.Join(tmpDir, "lib")},
			exts:  []string{".cpp", ".cc"},
			want: []string{
				filepath.Join(tmpDir, "lib", "e.cc"),
				filepath.Join(tmpDir, "src", "a.cpp"),
				filepath.Join(tmpDir, "src", "b.CPP"),
				filepath.Join(tmpDir, "src", "c.cc"),
			},
		},
		{
			name:  "explicit file kept regardless of extension",
			paths: []string{filepath.Join(tmpDir, "tools", "gen.c")},
			exts:  []string{"cpp"},
			want:  []string{filepath.Join(tmpDir, "tools", "gen.c")},
		},
		{
			name:  "overlapping paths are de-duplicated",
			paths: []string{tmpDir, filepath.Join(tmpDir, "src", "a.cpp")},
			exts:  []string{"cpp"},
			want: []string{
				filepath.Join(tmpDir, "src", "a.cpp"),
				filepath.Join(tmpDir, "src", "b.CPP"),
			},
		},
		{
			name:  "nothing matches",
			paths: []string{filepath.Join(tmpDir, "lib")},
			exts:  []string{"cpp"},
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := finder.FindSources(tt.paths, tt.exts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFinder_FindSources_Missing(t *testing.T) {
	finder := fs.NewFinder(fs.NewWalker())

	_, err := finder.FindSources([]string{filepath.Join(t.TempDir(), "nope")}, []string{"cpp"})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrSourceNotFound)
}
