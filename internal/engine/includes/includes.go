// Package includes turns compiler include traces into inclusion trees.
package includes

import (
	"bufio"
	"io"

	"go.trai.ch/hdrcost/internal/core/domain"
	"go.trai.ch/zerr"
)

// maxLineSize bounds a single trace line. Header paths never come close.
const maxLineSize = 1 << 20

type frame struct {
	depth int
	node  *domain.Node
}

// Builder assembles per-source inclusion trees and registers every header
// occurrence with a shared registry.
type Builder struct {
	registry *domain.Registry
}

// NewBuilder creates a Builder that records occurrences in registry.
func NewBuilder(registry *domain.Registry) *Builder {
	return &Builder{registry: registry}
}

// Build reads a trace for source and returns its tree. Depths are only
// compared with each other, so traces need not start at one or grow by one.
func (b *Builder) Build(source string, trace io.Reader) (*domain.Node, error) {
	sourceID := domain.NewFileID(source)
	root := domain.NewSourceTree(sourceID)

	var stack []frame

	scanner := bufio.NewScanner(trace)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		depth, header, ok := domain.ParseIncludeLine(scanner.Text())
		if !ok {
			continue
		}

		for len(stack) > 0 && stack[len(stack)-1].depth >= depth {
			stack = stack[:len(stack)-1]
		}

		parent := root
		if len(stack) > 0 {
			parent = stack[len(stack)-1].node
		}

		id := domain.NewFileID(header)
		b.registry.RegisterOccurrence(id, sourceID)

		node := domain.NewHeaderNode(id, depth)
		parent.AddChild(node)
		stack = append(stack, frame{depth: depth, node: node})
	}

	if err := scanner.Err(); err != nil {
		return root, zerr.With(zerr.Wrap(err, "failed to read include trace"), "source", source)
	}
	return root, nil
}
