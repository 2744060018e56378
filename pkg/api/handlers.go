package api

import (
	"context"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/w3stat/pkg/checksum"
	"github.com/ssargent/w3stat/pkg/digest"
	"github.com/ssargent/w3stat/pkg/fingerprint"
	"github.com/ssargent/w3stat/pkg/gamemap"
	"github.com/ssargent/w3stat/pkg/statstring"
	"github.com/ssargent/w3stat/pkg/storage"
)

const (
	defaultMaxBodyBytes  = 32 << 20
	fingerprintBodyLimit = 1 << 16
)

// Server holds the API server state
type Server struct {
	pipeline *fingerprint.Pipeline
	cache    ICache
	config   ServerConfig
	metrics  *Metrics
	logger   *slog.Logger
}

// NewServer creates a new API server. cache and metrics may be nil.
func NewServer(pipeline *fingerprint.Pipeline, cache ICache, config ServerConfig, metrics *Metrics, logger *slog.Logger) *Server {
	if pipeline == nil {
		pipeline = fingerprint.New()
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = defaultMaxBodyBytes
	}
	if config.Map.Path == "" {
		config.Map = gamemap.Default()
	}
	return &Server{
		pipeline: pipeline,
		cache:    cache,
		config:   config,
		metrics:  metrics,
		logger:   logger,
	}
}

// Config returns the server configuration after defaults were applied
func (s *Server) Config() ServerConfig {
	return s.config
}

func (s *Server) order() binary.ByteOrder {
	return s.pipeline.ByteOrder()
}

// readBody reads the whole request body. It writes the error response and
// returns false when the body cannot be read.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			sendError(w, fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit), http.StatusRequestEntityTooLarge)
			return nil, false
		}
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return nil, false
	}
	return body, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]string{"status": "healthy"})
}

func (s *Server) handleCRC32(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		s.metrics.RecordCodecOperation("crc32", 0, false)
		return
	}

	crc := checksum.Compute(body)
	s.metrics.RecordCodecOperation("crc32", len(body), true)
	sendSuccess(w, ChecksumResponse{
		CRC32: crc,
		Hex:   fmt.Sprintf("%08x", crc),
		Size:  len(body),
	})
}

func (s *Server) handleSHA1(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		s.metrics.RecordCodecOperation("sha1", 0, false)
		return
	}

	sum := digest.Sum(body)
	s.metrics.RecordCodecOperation("sha1", len(body), true)
	sendSuccess(w, DigestResponse{SHA1: sum.String(), Size: len(body)})
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		s.metrics.RecordCodecOperation("encode", 0, false)
		return
	}

	encoded := statstring.Encode(body)
	s.metrics.RecordCodecOperation("encode", len(body), true)
	sendSuccess(w, codecResponse(encoded))
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		s.metrics.RecordCodecOperation("decode", 0, false)
		return
	}

	decoded, err := statstring.Decode(body)
	if err != nil {
		s.metrics.RecordCodecOperation("decode", len(body), false)
		sendError(w, fmt.Sprintf("Failed to decode stat string: %v", err), http.StatusBadRequest)
		return
	}
	s.metrics.RecordCodecOperation("decode", len(body), true)
	sendSuccess(w, codecResponse(decoded))
}

func (s *Server) handleGameStat(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	var stat statstring.GameStat
	if err := json.Unmarshal(body, &stat); err != nil {
		s.metrics.RecordCodecOperation("game", len(body), false)
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}

	encoded := stat.Encode(s.order())
	s.metrics.RecordCodecOperation("game", len(body), true)
	sendSuccess(w, codecResponse(encoded))
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readBody(w, r)
	if !ok {
		return
	}

	stat, err := statstring.ParseGameStat(body, s.order())
	if err != nil {
		s.metrics.RecordCodecOperation("parse", len(body), false)
		sendError(w, fmt.Sprintf("Failed to parse stat string: %v", err), http.StatusBadRequest)
		return
	}
	s.metrics.RecordCodecOperation("parse", len(body), true)
	sendSuccess(w, ParseResponse{Stat: stat})
}

func (s *Server) handleFingerprint(w http.ResponseWriter, r *http.Request) {
	var req FingerprintRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, fingerprintBodyLimit)).Decode(&req); err != nil {
		sendError(w, "Invalid JSON request", http.StatusBadRequest)
		return
	}
	if req.Path == "" {
		sendError(w, "Path is required", http.StatusBadRequest)
		return
	}

	host := req.Host
	if host == "" {
		host = s.config.HostName
	}

	path := s.resolveMapPath(req.Path)
	res, err := s.pipeline.Run(r.Context(), path, s.config.Map, host)
	if err != nil {
		status := fingerprintStatus(err)
		if status == http.StatusInternalServerError {
			s.logger.Error("fingerprint failed", "path", path, "error", err)
		}
		sendError(w, fmt.Sprintf("Failed to fingerprint map: %v", err), status)
		return
	}

	sendSuccess(w, FingerprintResponse{
		Path:       req.Path,
		Size:       res.Fingerprint.Size,
		CRC32:      res.Fingerprint.CRC32,
		SHA1:       res.Fingerprint.SHA1.String(),
		Stat:       res.Stat,
		StatString: res.StatString,
		Hex:        hex.EncodeToString(res.StatString),
		GameType:   res.Map.GameType(),
		Players:    res.Map.Players,
		Teams:      res.Map.Teams,
	})
}

func (s *Server) handleListCache(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		sendError(w, "Fingerprint cache is disabled", http.StatusNotFound)
		return
	}

	entries, err := s.cache.List()
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to list cache: %v", err), http.StatusInternalServerError)
		return
	}
	s.metrics.UpdateCacheStats(len(entries))
	if entries == nil {
		entries = []storage.Entry{}
	}
	sendSuccess(w, entries)
}

func (s *Server) handleGetCacheEntry(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		sendError(w, "Fingerprint cache is disabled", http.StatusNotFound)
		return
	}

	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, "Invalid entry id", http.StatusBadRequest)
		return
	}

	entry, err := s.cache.GetByID(id)
	if errors.Is(err, storage.ErrNotFound) {
		sendError(w, "Entry not found", http.StatusNotFound)
		return
	}
	if err != nil {
		sendError(w, fmt.Sprintf("Failed to read cache entry: %v", err), http.StatusInternalServerError)
		return
	}
	sendSuccess(w, entry)
}

// resolveMapPath joins a request path onto the map directory. Cleaning the
// path as if it were absolute keeps ".." from climbing above the root.
func (s *Server) resolveMapPath(p string) string {
	root := s.config.MapDir
	if root == "" {
		root = "."
	}
	return filepath.Join(root, filepath.FromSlash(filepath.Clean("/"+filepath.ToSlash(p))))
}

// startMetricsUpdater periodically updates cache metrics until ctx is done
func (s *Server) startMetricsUpdater(ctx context.Context, interval time.Duration) {
	if s.cache == nil || s.metrics == nil {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			entries, err := s.cache.List()
			if err != nil {
				s.logger.Warn("failed to count cache entries", "error", err)
				continue
			}
			s.metrics.UpdateCacheStats(len(entries))
		}
	}
}

func codecResponse(p []byte) CodecResponse {
	if p == nil {
		p = []byte{}
	}
	return CodecResponse{Data: p, Hex: hex.EncodeToString(p), Size: len(p)}
}

func fingerprintStatus(err error) int {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, fingerprint.ErrEmptyInput), errors.Is(err, fingerprint.ErrIsDirectory):
		return http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
