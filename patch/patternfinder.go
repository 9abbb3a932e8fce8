// Package patch finds byte patterns in archive files and overwrites them in
// place without ever changing a file's length.
package patch

import (
	"bytes"
	"errors"
	"fmt"
	"os"
)

var (
	ErrNotFound   = errors.New("patch: pattern not found")
	ErrOutOfRange = errors.New("patch: write would extend the file")
)

// Find returns the offset of the first occurrence of pattern in content.
// An empty pattern never matches.
func Find(content []byte, pattern []byte) (int64, bool) {
	if len(pattern) == 0 {
		return -1, false
	}

	var offset = bytes.Index(content, pattern)

	if offset < 0 {
		return -1, false
	}

	return int64(offset), true
}

// FindInFile reads the whole file and searches it for pattern.
func FindInFile(filename string, pattern []byte) (int64, error) {
	content, err := os.ReadFile(filename)

	if err != nil {
		return -1, err
	}

	offset, ok := Find(content, pattern)

	if !ok {
		return -1, fmt.Errorf("%w: %d bytes in %s", ErrNotFound, len(pattern), filename)
	}

	return offset, nil
}
