// Package hcl implements config.Loader for graph files written in HCL.
//
// A file may declare any number of `locals` blocks and `graph` blocks. Locals
// are evaluated first and exposed to graph attributes as `local.<name>`,
// together with a small set of numeric functions (min, max, abs, ceil,
// floor).
package hcl
