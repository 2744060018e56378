// Package fingerprint reads map files, computes their CRC-32 and SHA-1
// fingerprints and assembles the encoded stat string a host advertises.
package fingerprint

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ssargent/w3stat/pkg/checksum"
	"github.com/ssargent/w3stat/pkg/digest"
	"github.com/ssargent/w3stat/pkg/gamemap"
	"github.com/ssargent/w3stat/pkg/statstring"
)

var (
	// ErrEmptyInput is returned when there is no data to fingerprint.
	ErrEmptyInput = errors.New("fingerprint: empty input")
	// ErrIsDirectory is returned when a map path names a directory.
	ErrIsDirectory = errors.New("fingerprint: path is a directory")
)

// Sources reported to an Observer.
const (
	SourceComputed = "computed"
	SourceCache    = "cache"
)

// Fingerprint identifies the contents of a map file.
type Fingerprint struct {
	Path  string        `json:"path,omitempty"`
	Size  int64         `json:"size"`
	CRC32 uint32        `json:"crc32"`
	SHA1  digest.Digest `json:"sha1"`
}

// Result is a fingerprint together with the stat string built from it.
type Result struct {
	Fingerprint Fingerprint         `json:"fingerprint"`
	Map         gamemap.Map         `json:"-"`
	Stat        statstring.GameStat `json:"stat"`
	StatString  []byte              `json:"stat_string"`
}

// Cache stores fingerprints between runs. A lookup only hits when the
// file's size and modification time are unchanged.
type Cache interface {
	Lookup(path string, size int64, modTime time.Time) (Fingerprint, bool, error)
	Store(fp Fingerprint, modTime time.Time) error
}

// Observer receives one call per fingerprint request.
type Observer interface {
	ObserveFingerprint(source string, duration time.Duration, err error)
}

// Pipeline runs the file to stat string flow. It is safe for concurrent use.
type Pipeline struct {
	order    binary.ByteOrder
	logger   *slog.Logger
	cache    Cache
	observer Observer
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithByteOrder sets the byte order of integer fields in the stat string.
func WithByteOrder(order binary.ByteOrder) Option {
	return func(p *Pipeline) {
		if order != nil {
			p.order = order
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithCache enables the fingerprint cache.
func WithCache(c Cache) Option {
	return func(p *Pipeline) {
		p.cache = c
	}
}

// WithObserver registers a metrics observer.
func WithObserver(o Observer) Option {
	return func(p *Pipeline) {
		p.observer = o
	}
}

// New creates a pipeline. Integers default to little-endian.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		order:  binary.LittleEndian,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ByteOrder returns the configured integer byte order.
func (p *Pipeline) ByteOrder() binary.ByteOrder {
	return p.order
}

// Compute fingerprints data. CRC-32 and SHA-1 run concurrently over the
// same bytes, each with its own engine.
func (p *Pipeline) Compute(ctx context.Context, data []byte) (Fingerprint, error) {
	if len(data) == 0 {
		return Fingerprint{}, ErrEmptyInput
	}
	if err := ctx.Err(); err != nil {
		return Fingerprint{}, err
	}

	var (
		crc uint32
		sha digest.Digest
		g   errgroup.Group
	)
	g.Go(func() error {
		crc = checksum.Compute(data)
		return nil
	})
	g.Go(func() error {
		h := digest.New()
		h.Update(data)
		sha = h.Finalize()
		return nil
	})
	if err := g.Wait(); err != nil {
		return Fingerprint{}, err
	}

	return Fingerprint{Size: int64(len(data)), CRC32: crc, SHA1: sha}, nil
}

// FromFile fingerprints the file at path. Read failures are returned as
// is; an empty file yields ErrEmptyInput.
func (p *Pipeline) FromFile(ctx context.Context, path string) (fp Fingerprint, err error) {
	start := time.Now()
	source := SourceComputed
	defer func() {
		if p.observer != nil {
			p.observer.ObserveFingerprint(source, time.Since(start), err)
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("failed to stat map file: %w", err)
	}
	if info.IsDir() {
		return Fingerprint{}, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	if p.cache != nil {
		cached, ok, err := p.cache.Lookup(path, info.Size(), info.ModTime())
		if err != nil {
			p.logger.Warn("fingerprint cache lookup failed", "path", path, "error", err)
		} else if ok {
			source = SourceCache
			p.logger.Debug("fingerprint cache hit", "path", path)
			return cached, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("failed to read map file: %w", err)
	}

	fp, err = p.Compute(ctx, data)
	if err != nil {
		return Fingerprint{}, fmt.Errorf("%s: %w", path, err)
	}
	fp.Path = path

	p.logger.Debug("fingerprint computed",
		"path", path,
		"size", fp.Size,
		"crc32", fmt.Sprintf("%08x", fp.CRC32),
		"sha1", fp.SHA1.String())

	if p.cache != nil {
		if err := p.cache.Store(fp, info.ModTime()); err != nil {
			p.logger.Warn("fingerprint cache store failed", "path", path, "error", err)
		}
	}

	return fp, nil
}

// StatString assembles and encodes the stat string for a game hosted by
// host on map m, using the CRC from fp.
func (p *Pipeline) StatString(fp Fingerprint, m gamemap.Map, host string) (statstring.GameStat, []byte) {
	stat := m.GameStat(host, p.order)
	stat.MapCRC = fp.CRC32
	return stat, stat.Encode(p.order)
}

// Run fingerprints the map file at path and returns the stat string a host
// named host would advertise for it.
func (p *Pipeline) Run(ctx context.Context, path string, m gamemap.Map, host string) (Result, error) {
	fp, err := p.FromFile(ctx, path)
	if err != nil {
		return Result{}, err
	}

	stat, encoded := p.StatString(fp, m, host)
	return Result{
		Fingerprint: fp,
		Map:         m.WithFingerprint(uint32(fp.Size), fp.CRC32, fp.SHA1),
		Stat:        stat,
		StatString:  encoded,
	}, nil
}

// Batch fingerprints paths with at most limit files in flight. Results are
// in input order. The first failure cancels the remaining work.
func (p *Pipeline) Batch(ctx context.Context, paths []string, limit int) ([]Fingerprint, error) {
	if limit < 1 {
		limit = 1
	}

	results := make([]Fingerprint, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			fp, err := p.FromFile(ctx, path)
			if err != nil {
				return err
			}
			results[i] = fp
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
