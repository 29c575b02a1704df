package transform

import "sync/atomic"

// partitionShift leaves 2^40 local ids per partition, namespaced by the
// partition number in the high bits. Ids are unique within a run and dense
// within a partition; they are not stable across runs.
const partitionShift = 40

// IDGen hands out surrogate songplay ids. Safe for concurrent use.
type IDGen struct {
	base int64
	next atomic.Int64
}

// NewIDGen returns a generator for the given partition number.
func NewIDGen(partition int) *IDGen {
	return &IDGen{base: int64(partition) << partitionShift}
}

// Next returns the next id: partition<<40 | counter, counter starting at 0.
func (g *IDGen) Next() int64 {
	return g.base | (g.next.Add(1) - 1)
}
