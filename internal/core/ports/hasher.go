package ports

// Hasher digests file contents.
//
//go:generate mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// FileDigest returns the content hash of the file at path.
	FileDigest(path string) (uint64, error)
}
