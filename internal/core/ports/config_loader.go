package ports

import "go.trai.ch/hdrcost/internal/core/domain"

// ConfigLoader resolves the analysis options from disk.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the file at path, or the default config file in cwd when path
	// is empty. A missing default file yields domain.DefaultOptions().
	Load(cwd, path string) (domain.Options, error)
}
