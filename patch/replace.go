package patch

import (
	"fmt"
	"os"
)

// FitLength forces data to exactly length bytes, trimming the end or
// padding it with zeros. It reports how many bytes were added or removed.
func FitLength(data []byte, length int) (result []byte, padded int, trimmed int) {
	if len(data) > length {
		return data[:length], 0, len(data) - length
	}

	result = make([]byte, length)
	copy(result, data)

	return result, length - len(data), 0
}

// Replace overwrites the file starting at offset. It refuses writes that
// would run past the current end of the file.
func Replace(filename string, offset int64, data []byte) error {
	file, err := os.OpenFile(filename, os.O_RDWR, 0)

	if err != nil {
		return err
	}

	info, err := file.Stat()

	if err != nil {
		file.Close()
		return err
	}

	if offset < 0 || offset+int64(len(data)) > info.Size() {
		file.Close()
		return fmt.Errorf("%w: %d bytes at %#x in %s (%d bytes)", ErrOutOfRange, len(data), offset, filename, info.Size())
	}

	if _, err = file.WriteAt(data, offset); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

// FindAndReplace overwrites the first occurrence of pattern with
// replacement, fitted to the pattern's length. It returns where the
// pattern was found.
func FindAndReplace(filename string, pattern []byte, replacement []byte) (offset int64, padded int, trimmed int, err error) {
	offset, err = FindInFile(filename, pattern)

	if err != nil {
		return -1, 0, 0, err
	}

	fitted, padded, trimmed := FitLength(replacement, len(pattern))

	if err = Replace(filename, offset, fitted); err != nil {
		return offset, 0, 0, err
	}

	return offset, padded, trimmed, nil
}
