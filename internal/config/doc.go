// Package config defines the format-agnostic model of the dataflow graphs
// to schedule, along with the Loader interface implemented by the concrete
// file formats.
//
// The `config.Model` is the single source of truth for the `dataflow`
// package. Concrete loaders, such as for HCL and YAML, are provided in
// separate packages and combined by MultiLoader.
package config
