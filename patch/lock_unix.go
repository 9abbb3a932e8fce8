//go:build unix

package patch

import (
	"os"

	"golang.org/x/sys/unix"
)

func lockFile(filename string) (func(), error) {
	file, err := os.Open(filename)

	if err != nil {
		return nil, err
	}

	if err = unix.Flock(int(file.Fd()), unix.LOCK_EX); err != nil {
		file.Close()
		return nil, err
	}

	return func() {
		unix.Flock(int(file.Fd()), unix.LOCK_UN)
		file.Close()
	}, nil
}
