package patch

import (
	"path/filepath"
	"sort"
	"sync"
)

var (
	locksMutex sync.Mutex
	locks      = make(map[string]*sync.Mutex)
)

func processLock(key string) *sync.Mutex {
	locksMutex.Lock()
	defer locksMutex.Unlock()

	lock, ok := locks[key]

	if !ok {
		lock = &sync.Mutex{}
		locks[key] = lock
	}

	return lock
}

// Lock takes exclusive ownership of every named file, both within this
// process and, where the platform allows, against other processes. Files
// are locked in sorted order so two rebuilds of the same pair cannot
// deadlock. The returned function releases everything.
func Lock(filenames ...string) (func(), error) {
	var keys = make([]string, 0, len(filenames))

	for _, filename := range filenames {
		abs, err := filepath.Abs(filename)

		if err != nil {
			return nil, err
		}

		keys = append(keys, abs)
	}

	sort.Strings(keys)

	var releases []func() = nil

	var unlock = func() {
		for i := len(releases) - 1; i >= 0; i-- {
			releases[i]()
		}
	}

	for i, key := range keys {
		if i > 0 && keys[i-1] == key {
			continue
		}

		var mutex = processLock(key)
		mutex.Lock()
		releases = append(releases, mutex.Unlock)

		release, err := lockFile(key)

		if err != nil {
			unlock()
			return nil, err
		}

		releases = append(releases, release)
	}

	return unlock, nil
}
