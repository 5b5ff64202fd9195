// internal/importer/errors.go
package importer

import "errors"

var (
	// ErrNoSuchPath indicates an import path that does not exist.
	ErrNoSuchPath = errors.New("no such import path")

	// ErrInvalidOption indicates an import argument that could not be parsed.
	ErrInvalidOption = errors.New("invalid import option")

	// ErrCopyFailed indicates the file copy operation failed.
	ErrCopyFailed = errors.New("failed to copy file")

	// ErrDestinationExists indicates the destination file already exists.
	ErrDestinationExists = errors.New("destination file already exists")

	// ErrPathTraversal indicates a path traversal attack was detected.
	ErrPathTraversal = errors.New("path traversal detected")
)
