package ports

// SourceFinder discovers translation units.
//
//go:generate mockgen -source=source_finder.go -destination=mocks/mock_source_finder.go -package=mocks
type SourceFinder interface {
	// FindSources expands paths into absolute, sorted, de-duplicated source
	// files whose extension is in exts. Files given explicitly are kept
	// regardless of extension.
	FindSources(paths []string, exts []string) ([]string, error)
}
