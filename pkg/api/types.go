package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/w3stat/pkg/gamemap"
	"github.com/ssargent/w3stat/pkg/statstring"
	"github.com/ssargent/w3stat/pkg/storage"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ChecksumResponse is returned by the CRC-32 endpoint
type ChecksumResponse struct {
	CRC32 uint32 `json:"crc32"`
	Hex   string `json:"hex"`
	Size  int    `json:"size"`
}

// DigestResponse is returned by the SHA-1 endpoint
type DigestResponse struct {
	SHA1 string `json:"sha1"`
	Size int    `json:"size"`
}

// CodecResponse carries the output of an encode or decode request.
// Bytes are base64 in JSON.
type CodecResponse struct {
	Data []byte `json:"data"`
	Hex  string `json:"hex"`
	Size int    `json:"size"`
}

// ParseResponse is returned by the stat string parse endpoint
type ParseResponse struct {
	Stat statstring.GameStat `json:"stat"`
}

// FingerprintRequest asks for the fingerprint of a map file under the
// configured map directory
type FingerprintRequest struct {
	Path string `json:"path"`
	Host string `json:"host,omitempty"`
}

// FingerprintResponse is returned by the fingerprint endpoint
type FingerprintResponse struct {
	Path       string              `json:"path"`
	Size       int64               `json:"size"`
	CRC32      uint32              `json:"crc32"`
	SHA1       string              `json:"sha1"`
	Stat       statstring.GameStat `json:"stat"`
	StatString []byte              `json:"stat_string"`
	Hex        string              `json:"hex"`
	GameType   uint32              `json:"game_type"`
	Players    int                 `json:"players"`
	Teams      int                 `json:"teams"`
}

// ServerConfig holds configuration for the API server
type ServerConfig struct {
	Port         int
	Bind         string
	APIKey       string
	HostName     string              // Default host name for stat strings
	Map          gamemap.Map         // Map settings used for stat strings
	MapDir       string              // Fingerprint requests are confined to this directory
	MaxBodyBytes int64               // Request body limit; zero means defaultMaxBodyBytes
	Gatherer     prometheus.Gatherer // Served on /metrics; nil means the default registry
}

// ICache defines the fingerprint cache operations the API exposes
type ICache interface {
	List() ([]storage.Entry, error)
	GetByID(id ksuid.KSUID) (storage.Entry, error)
}
