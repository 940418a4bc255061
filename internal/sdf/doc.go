// Package sdf synthesizes static firing orders for synchronous dataflow
// graphs.
//
// # Overview
//
// A synchronous dataflow (SDF) graph is made of actors that consume and
// produce a fixed number of tokens per firing. An upstream balance-equation
// solver decides how often each actor fires in one graph iteration; this
// package decides in which order those firings happen. Among all valid
// orders it returns one that minimizes the selected Criterion:
//
//   - BufferSize: the high-water mark of the memory held by all channels.
//   - ExecutionTime: the accumulated execution-time estimate of all firings.
//
// # Firing Modes
//
// Actors implementing BufferingProfile may fire in one of two modes. The
// shared mode lets consumers of one channel read from a common buffer. The
// exclusive mode isolates the firing: a consuming port is only satisfied by
// tokens that no other consumer of the same channel still needs. Every mode
// carries its own buffer and time cost, and the scheduler picks a mode per
// firing. Actors without the capability always fire in shared mode at zero
// cost.
//
// # Search
//
// The scheduler builds a private analysis model (channels, ports, actors and
// flat state vectors) for every call and runs a best-first search over
// states. The frontier is dequeued in non-decreasing objective order, so the
// first terminal state dequeued is optimal. By default states already
// expanded are remembered and never expanded twice; WithMemoization(false)
// restores the exhaustive search.
//
// Nothing in the package keeps process-wide state. Independent graphs may be
// scheduled concurrently as long as every goroutine uses its own call.
package sdf
