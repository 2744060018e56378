// Package storage persists map fingerprints in a pebble database so that
// unchanged files are not hashed twice.
package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/w3stat/pkg/codec"
	"github.com/ssargent/w3stat/pkg/fingerprint"
)

// idLen is the size of the ksuid stored ahead of each record.
const idLen = len(ksuid.Nil)

var (
	fingerprintPrefix = []byte("fp/")
	idPrefix          = []byte("id/")
)

// ErrNotFound is returned when no entry exists for a path or id.
var ErrNotFound = errors.New("storage: entry not found")

// Entry is a cached fingerprint with the metadata it was stored under.
type Entry struct {
	ID          ksuid.KSUID             `json:"id"`
	Fingerprint fingerprint.Fingerprint `json:"fingerprint"`
	ModTime     time.Time               `json:"mod_time"`
}

// Observer receives one call per cache lookup.
type Observer interface {
	ObserveCacheLookup(hit bool)
}

// Cache is a pebble-backed fingerprint cache. It satisfies
// fingerprint.Cache.
type Cache struct {
	db       *pebble.DB
	codec    *codec.RecordCodec
	logger   *slog.Logger
	observer Observer
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithObserver registers a metrics observer for lookups.
func WithObserver(o Observer) Option {
	return func(c *Cache) {
		c.observer = o
	}
}

// Open opens or creates the cache database in dir.
func Open(dir string, opts ...Option) (*Cache, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open fingerprint cache: %w", err)
	}

	c := &Cache{
		db:     db,
		codec:  codec.NewRecordCodec(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Put stores fp under its path and returns the id of the new entry. Any
// previous entry for the path is replaced along with its id.
func (c *Cache) Put(fp fingerprint.Fingerprint, modTime time.Time) (ksuid.KSUID, error) {
	if fp.Path == "" {
		return ksuid.Nil, fmt.Errorf("cannot cache fingerprint without a path")
	}

	rec := codec.NewRecord(fp.Path, fp.Size, modTime, fp.CRC32, fp.SHA1)
	encoded, err := c.codec.Encode(rec)
	if err != nil {
		return ksuid.Nil, fmt.Errorf("failed to encode record: %w", err)
	}

	id := ksuid.New()
	value := make([]byte, 0, idLen+len(encoded))
	value = append(value, id.Bytes()...)
	value = append(value, encoded...)

	batch := c.db.NewBatch()
	defer batch.Close()

	if old, err := c.Get(fp.Path); err == nil {
		if err := batch.Delete(idKey(old.ID), nil); err != nil {
			return ksuid.Nil, err
		}
	} else if !errors.Is(err, ErrNotFound) {
		c.logger.Warn("replacing unreadable cache entry", "path", fp.Path, "error", err)
	}

	if err := batch.Set(pathKey(fp.Path), value, nil); err != nil {
		return ksuid.Nil, err
	}
	if err := batch.Set(idKey(id), []byte(fp.Path), nil); err != nil {
		return ksuid.Nil, err
	}
	if err := batch.Commit(pebble.NoSync); err != nil {
		return ksuid.Nil, fmt.Errorf("failed to write cache entry: %w", err)
	}

	c.logger.Debug("fingerprint cached", "path", fp.Path, "id", id.String())
	return id, nil
}

// Store implements fingerprint.Cache.
func (c *Cache) Store(fp fingerprint.Fingerprint, modTime time.Time) error {
	_, err := c.Put(fp, modTime)
	return err
}

// Get returns the entry for path. A record that fails its checksum is
// reported as an error wrapping codec.ErrChecksum.
func (c *Cache) Get(path string) (Entry, error) {
	value, err := c.read(pathKey(path))
	if err != nil {
		return Entry{}, err
	}
	return c.decodeEntry(value)
}

// GetByID returns the entry with the given id.
func (c *Cache) GetByID(id ksuid.KSUID) (Entry, error) {
	path, err := c.read(idKey(id))
	if err != nil {
		return Entry{}, err
	}
	return c.Get(string(path))
}

// Lookup implements fingerprint.Cache. Only an entry whose size and
// modification time both match is a hit.
func (c *Cache) Lookup(path string, size int64, modTime time.Time) (fingerprint.Fingerprint, bool, error) {
	var (
		entry Entry
		hit   bool
	)
	value, err := c.read(pathKey(path))
	if err == nil {
		var rec *codec.Record
		entry, rec, err = c.decodeRecord(value)
		hit = err == nil && rec.Matches(size, modTime)
	}
	if c.observer != nil {
		c.observer.ObserveCacheLookup(hit)
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return fingerprint.Fingerprint{}, false, nil
	case err != nil:
		return fingerprint.Fingerprint{}, false, err
	case !hit:
		c.logger.Debug("stale cache entry", "path", path)
		return fingerprint.Fingerprint{}, false, nil
	}
	return entry.Fingerprint, true, nil
}

// Delete removes the entry for path. Deleting a missing path is not an
// error.
func (c *Cache) Delete(path string) error {
	batch := c.db.NewBatch()
	defer batch.Close()

	value, err := c.read(pathKey(path))
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		return err
	}
	if len(value) >= idLen {
		id, err := ksuid.FromBytes(value[:idLen])
		if err == nil {
			if err := batch.Delete(idKey(id), nil); err != nil {
				return err
			}
		}
	}
	if err := batch.Delete(pathKey(path), nil); err != nil {
		return err
	}
	return batch.Commit(pebble.NoSync)
}

// List returns every cached entry in path order.
func (c *Cache) List() ([]Entry, error) {
	iter, err := c.db.NewIter(&pebble.IterOptions{
		LowerBound: fingerprintPrefix,
		UpperBound: prefixEnd(fingerprintPrefix),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var entries []Entry
	for iter.First(); iter.Valid(); iter.Next() {
		entry, err := c.decodeEntry(iter.Value())
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", bytes.TrimPrefix(iter.Key(), fingerprintPrefix), err)
		}
		entries = append(entries, entry)
	}
	return entries, iter.Error()
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// read returns a copy of the value at key. Pebble owns the returned slice
// only until the closer runs.
func (c *Cache) read(key []byte) ([]byte, error) {
	data, closer, err := c.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()

	return append([]byte(nil), data...), nil
}

func (c *Cache) decodeEntry(value []byte) (Entry, error) {
	entry, _, err := c.decodeRecord(value)
	return entry, err
}

// decodeRecord splits a stored value into its id and validated record.
func (c *Cache) decodeRecord(value []byte) (Entry, *codec.Record, error) {
	if len(value) < idLen {
		return Entry{}, nil, fmt.Errorf("cache value too short: %d bytes", len(value))
	}
	id, err := ksuid.FromBytes(value[:idLen])
	if err != nil {
		return Entry{}, nil, fmt.Errorf("invalid entry id: %w", err)
	}

	rec, err := c.codec.Decode(value[idLen:])
	if err != nil {
		return Entry{}, nil, err
	}
	if err := rec.Validate(); err != nil {
		return Entry{}, nil, err
	}

	return Entry{
		ID: id,
		Fingerprint: fingerprint.Fingerprint{
			Path:  string(rec.Path),
			Size:  int64(rec.Size),
			CRC32: rec.MapCRC,
			SHA1:  rec.SHA1,
		},
		ModTime: rec.ModifiedAt(),
	}, rec, nil
}

func pathKey(path string) []byte {
	return append(append([]byte(nil), fingerprintPrefix...), path...)
}

func idKey(id ksuid.KSUID) []byte {
	return append(append([]byte(nil), idPrefix...), id.String()...)
}

// prefixEnd returns the smallest key greater than every key with prefix.
func prefixEnd(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
