package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/hdrcost/internal/adapters/config"  //nolint:depguard // Wired in app layer
	"go.trai.ch/hdrcost/internal/adapters/fs"      //nolint:depguard // Wired in app layer
	"go.trai.ch/hdrcost/internal/adapters/logger"  //nolint:depguard // Wired in app layer
	"go.trai.ch/hdrcost/internal/adapters/report"  //nolint:depguard // Wired in app layer
	"go.trai.ch/hdrcost/internal/adapters/shell"   //nolint:depguard // Wired in app layer
	"go.trai.ch/hdrcost/internal/adapters/watcher" //nolint:depguard // Wired in app layer
	"go.trai.ch/hdrcost/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App    *App
	Logger ports.Logger
}

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			shell.NodeID,
			logger.NodeID,
			fs.HasherNodeID,
			fs.FinderNodeID,
			report.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return &Components{App: a, Logger: log}, nil
		},
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	executor, err := graft.Dep[ports.Executor](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	hasher, err := graft.Dep[ports.Hasher](ctx)
	if err != nil {
		return nil, err
	}

	finder, err := graft.Dep[ports.SourceFinder](ctx)
	if err != nil {
		return nil, err
	}

	reportWriter, err := graft.Dep[ports.ReportWriter](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, executor, log, hasher, finder, reportWriter, w), nil
}
