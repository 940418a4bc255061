// Package dataflow is the in-process host framework for synchronous
// dataflow graphs. It turns a config.Graph into actors, ports and
// connections that satisfy the interfaces the sdf scheduler consumes.
//
// Actors declared with a profile become *ProfiledActor values and may be
// fired in shared or exclusive mode. Firing only records the request and
// logs it; the framework performs no data processing.
package dataflow
