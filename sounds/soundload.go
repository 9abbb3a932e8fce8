package sounds

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/dustin/go-humanize"
	"github.com/remeh/sizedwaitgroup"
	"github.com/sirupsen/logrus"

	"github.com/lambertjamesd/uberdsp/adpcm"
	"github.com/lambertjamesd/uberdsp/dsp"
	"github.com/lambertjamesd/uberdsp/sdir"
	"github.com/lambertjamesd/uberdsp/uber"
)

// A Loader is safe for concurrent use. Reusing one across reloads lets
// unchanged sounds skip decoding.
type Loader struct {
	options Options
	cache   *pcmCache
}

func NewLoader(options Options) *Loader {
	if options.Workers <= 0 {
		options.Workers = 1
	}

	return &Loader{
		options: options,
		cache:   newPCMCache(options.CacheSize),
	}
}

// readPayload reads the record's bytes from samp. Reads that run off the
// end of the file return what was there.
func readPayload(samp io.ReaderAt, record *sdir.Record) ([]byte, error) {
	var payload = make([]byte, record.DataLength())

	read, err := samp.ReadAt(payload, int64(record.DataOffset()))

	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("sound %d: reading %d bytes at %#x: %w", record.Index, len(payload), record.DataOffset(), err)
	}

	return payload[:read], nil
}

func (loader *Loader) decode(record *sdir.Record, payload []byte) *Sound {
	var sampleCount = record.SampleCount()
	var key = cacheKey(payload, record.Coefficients[:], record.PS, sampleCount)

	pcm, cached := loader.cache.get(key)

	if !cached {
		pcm = adpcm.Decode(payload, record.Coefs(), record.Header(), sampleCount)
		loader.cache.add(key, pcm)
	}

	logrus.WithFields(logrus.Fields{
		"index":  record.Index,
		"rate":   record.SampleRate,
		"size":   humanize.Bytes(uint64(len(payload))),
		"cached": cached,
	}).Debug("decoded sound")

	return &Sound{
		Index:       record.Index,
		Record:      *record,
		SampleCount: sampleCount,
		ADPCM:       payload,
		PCM:         pcm,
		DSP: dsp.Build(
			uint32(sampleCount),
			record.NumNibbles,
			uint32(record.SampleRate),
			record.Coefficients[:],
			record.PS,
			payload,
		),
		Checksum: xxhash.Sum64(payload),
	}
}

// Load decodes every non-empty record of dir, in directory order.
func (loader *Loader) Load(ctx context.Context, dir *sdir.Directory, samp io.ReaderAt) ([]*Sound, error) {
	var records []*sdir.Record = nil

	for i := range dir.Records {
		if !dir.Records[i].IsEmpty() {
			records = append(records, &dir.Records[i])
		}
	}

	var result = make([]*Sound, len(records))
	var wg = sizedwaitgroup.New(loader.options.Workers)
	var errMutex sync.Mutex
	var firstErr error = nil

	for i, record := range records {
		if err := wg.AddWithContext(ctx); err != nil {
			wg.Wait()
			return nil, err
		}

		go func(i int, record *sdir.Record) {
			defer wg.Done()

			payload, err := readPayload(samp, record)

			if err != nil {
				errMutex.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMutex.Unlock()
				return
			}

			result[i] = loader.decode(record, payload)
		}(i, record)
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}

	logrus.WithFields(logrus.Fields{
		"records": len(dir.Records),
		"sounds":  len(result),
	}).Info("loaded sounds")

	return result, nil
}

// LoadFiles reads the sound directory out of uberPath and decodes the
// samples it describes from sampPath.
func (loader *Loader) LoadFiles(ctx context.Context, uberPath string, sampPath string) ([]*Sound, error) {
	data, err := uber.ExtractChunk(uberPath, uber.SDIR_TAG)

	if err != nil {
		return nil, err
	}

	dir, err := sdir.Parse(data)

	if err != nil {
		return nil, fmt.Errorf("%s: %w", uberPath, err)
	}

	samp, err := os.Open(sampPath)

	if err != nil {
		return nil, err
	}

	defer samp.Close()

	return loader.Load(ctx, dir, samp)
}
