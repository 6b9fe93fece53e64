// Package config defines the format-agnostic graph document model, along
// with the Loader and Writer interfaces for moving it in and out of a
// concrete file format.
//
// The `config.Model` is the single source of truth for the `builder`
// package. Concrete implementations of the interfaces, such as for HCL, are
// provided in separate packages.
package config
