// Copyright (c) 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package dd

// configs stores the sizing knobs for a Kernel. Adapted from a BuDDy-style
// BDD package's functional-option configuration (node table size, cache
// size/ratio, max growth per resize, minimum free-node ratio after a GC).
type configs struct {
	varnum          int
	nodesize        int
	cachesize       int
	cacheratio      int
	maxnodesize     int
	maxnodeincrease int
	minfreenodes    int
}

func defaultConfigs(varnum int) configs {
	return configs{
		varnum:          varnum,
		nodesize:        2*varnum + 2,
		cachesize:       10000,
		minfreenodes:    _MINFREENODES,
		maxnodeincrease: _DEFAULTMAXNODEINC,
	}
}

// Option configures a Kernel at construction time.
type Option func(*configs)

// Nodesize sets a preferred initial size for the node table.
func Nodesize(size int) Option {
	return func(c *configs) {
		if size >= 2*c.varnum+2 {
			c.nodesize = size
		}
	}
}

// Maxnodesize limits the total number of nodes a Kernel may allocate. Zero
// (the default) means no limit.
func Maxnodesize(size int) Option {
	return func(c *configs) { c.maxnodesize = size }
}

// Maxnodeincrease limits how many nodes a single resize may add. Zero means
// no limit.
func Maxnodeincrease(size int) Option {
	return func(c *configs) { c.maxnodeincrease = size }
}

// Minfreenodes records a percentage of free nodes to keep after a garbage
// collection. The value is stored in the configuration; allocSlot does not
// consult it.
func Minfreenodes(ratio int) Option {
	return func(c *configs) { c.minfreenodes = ratio }
}

// Cachesize sets the initial number of entries in the apply/ite/exist
// caches.
func Cachesize(size int) Option {
	return func(c *configs) { c.cachesize = size }
}

// Cacheratio records a percentage of cache entries to add per node-table
// slot on resize. The value is stored in the configuration; the caches are
// Go maps that grow with their contents and are not resized by it.
func Cacheratio(ratio int) Option {
	return func(c *configs) { c.cacheratio = ratio }
}

// DefaultMemoryBudget is a nominal memory budget (bytes) for the shared
// kernel. Neither the kernel nor the CLI driver reads or enforces it.
const DefaultMemoryBudget = 2 << 30 // ~2 GiB
