package graph

import "sync/atomic"

// idGenerator hands out monotonically increasing guid/fuid values, scoped
// to a single Graph. Replaces the original's hidden process-wide counters
// (see spec Design Notes) with an explicit, non-singleton counter pair.
type idGenerator struct {
	nextGUID atomic.Uint64
	nextFUID atomic.Uint64
}

func newIDGenerator() *idGenerator {
	return &idGenerator{}
}

func (g *idGenerator) guid() uint64 {
	return g.nextGUID.Add(1) - 1
}

func (g *idGenerator) fuid() uint64 {
	return g.nextFUID.Add(1) - 1
}
