package domain

import "path/filepath"

const (
	// HdrcostDirName is the name of the internal workspace directory.
	HdrcostDirName = ".hdrcost"

	// CacheDirName is the name of the content addressable cache directory.
	CacheDirName = "cache"

	// ConfigFileName is the name of the optional project configuration file.
	ConfigFileName = "hdrcost.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// DefaultHdrcostPath returns the default root directory for hdrcost metadata.
func DefaultHdrcostPath() string {
	return HdrcostDirName
}

// DefaultCachePath returns the default path for the result cache.
// It joins .hdrcost and cache.
func DefaultCachePath() string {
	return filepath.Join(HdrcostDirName, CacheDirName)
}
