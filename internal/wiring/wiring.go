// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/hdrcost/internal/adapters/config"
	_ "go.trai.ch/hdrcost/internal/adapters/fs"
	_ "go.trai.ch/hdrcost/internal/adapters/logger"
	_ "go.trai.ch/hdrcost/internal/adapters/report"
	_ "go.trai.ch/hdrcost/internal/adapters/shell"
	_ "go.trai.ch/hdrcost/internal/adapters/watcher"
	// Register app nodes.
	_ "go.trai.ch/hdrcost/internal/app"
)
