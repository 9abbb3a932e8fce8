package sounds

import (
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/dgryski/go-tinylfu"
)

type pcmCache struct {
	mutex sync.Mutex
	lfu   *tinylfu.T[uint64, []int16]
}

func identityHasher(key uint64) uint64 {
	return key
}

func newPCMCache(size int) *pcmCache {
	if size <= 0 {
		return nil
	}

	return &pcmCache{
		lfu: tinylfu.New[uint64, []int16](size, size*10, identityHasher),
	}
}

// cacheKey covers everything the decoder output depends on.
func cacheKey(payload []byte, coefficients []byte, ps uint8, sampleCount int) uint64 {
	var digest xxhash.Digest
	digest.Reset()

	var scratch [9]byte
	scratch[0] = ps
	binary.BigEndian.PutUint64(scratch[1:], uint64(sampleCount))

	digest.Write(scratch[:])
	digest.Write(coefficients)
	digest.Write(payload)

	return digest.Sum64()
}

func (cache *pcmCache) get(key uint64) ([]int16, bool) {
	if cache == nil {
		return nil, false
	}

	cache.mutex.Lock()
	defer cache.mutex.Unlock()

	return cache.lfu.Get(key)
}

func (cache *pcmCache) add(key uint64, pcm []int16) {
	if cache == nil {
		return
	}

	cache.mutex.Lock()
	defer cache.mutex.Unlock()

	cache.lfu.Add(key, pcm)
}
