package save

import "errors"

var (
	// ErrNotFound is returned when no artifact exists under a slot name
	ErrNotFound = errors.New("save not found")

	// ErrCorrupt is returned when any stage of the decode pipeline
	// fails structurally (text decode, decompression, parse)
	ErrCorrupt = errors.New("save data is corrupt")

	// ErrVersionIncompatible is returned when the artifact's major
	// version differs from the running system's major version
	ErrVersionIncompatible = errors.New("save version is incompatible")

	// ErrCatalogIO is returned on filesystem-level failures during
	// catalog operations (list, delete, export, import)
	ErrCatalogIO = errors.New("save catalog I/O failure")
)
