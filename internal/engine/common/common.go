// Package common finds the headers nearly every source pays for.
package common

import (
	"slices"

	"go.trai.ch/hdrcost/internal/core/domain"
)

// Detect returns the common headers of forest in discovery order.
//
// A header is common when it was measured at or above opts.MinDuration and
// at least opts.CommonPercent of the sources include it. Only the topmost
// common header of any inclusion path is kept: a header nested under one
// that is already common is never reported, even where another source
// reaches it directly.
func Detect(forest *domain.Forest, registry *domain.Registry, opts domain.Options) []domain.FileID {
	threshold := opts.CommonThreshold(len(forest.Sources()))

	var found []domain.FileID
	members := make(map[domain.FileID]struct{})

	for n := range forest.BreadthFirst() {
		if _, ok := members[n.Label]; ok {
			continue
		}
		h := registry.Get(n.Label)
		cpu, ok := h.CPUTime()
		if !ok || cpu < opts.MinDuration || float64(h.RefCount) < threshold {
			continue
		}
		if hasMemberAncestor(n, members) {
			continue
		}
		members[n.Label] = struct{}{}
		found = append(found, n.Label)
	}

	nested := make(map[domain.FileID]struct{})
	for n := range forest.BreadthFirst() {
		if _, ok := members[n.Label]; ok && hasMemberAncestor(n, members) {
			nested[n.Label] = struct{}{}
		}
	}

	return slices.DeleteFunc(found, func(id domain.FileID) bool {
		_, ok := nested[id]
		return ok
	})
}

func hasMemberAncestor(n *domain.Node, members map[domain.FileID]struct{}) bool {
	for a := range n.Ancestors() {
		if a.Label == n.Label {
			continue
		}
		if _, ok := members[a.Label]; ok {
			return true
		}
	}
	return false
}
