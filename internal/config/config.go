// Package config provides configuration loading for planqd.
package config

import (
	"fmt"

	"github.com/civitaslabs/planqd/internal/logging"
)

// Config is the root configuration for the planqd daemon.
type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Logging     logging.Config    `koanf:"logging"`
	Telemetry   TelemetryConfig   `koanf:"telemetry"`
	VectorStore VectorStoreConfig `koanf:"vectorstore"`
	Embeddings  EmbeddingsConfig  `koanf:"embeddings"`
	Graph       GraphConfig       `koanf:"graph"`
	Memory      MemoryConfig      `koanf:"memory"`
	Retrieval   RetrievalConfig   `koanf:"retrieval"`
	Generation  GenerationConfig  `koanf:"generation"`
	Knowledge   KnowledgeConfig   `koanf:"knowledge"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string   `koanf:"host"`
	Port            int      `koanf:"port"`
	ShutdownTimeout Duration `koanf:"shutdown_timeout"`
}

// TelemetryConfig holds OpenTelemetry exporter settings.
type TelemetryConfig struct {
	Enabled      bool    `koanf:"enabled"`
	Endpoint     string  `koanf:"endpoint"`
	ServiceName  string  `koanf:"service_name"`
	SampleRatio  float64 `koanf:"sample_ratio"`
	ExportPrometheus bool `koanf:"export_prometheus"`
}

// VectorStoreConfig selects and configures the vector store provider.
type VectorStoreConfig struct {
	// Provider is "chromem" (embedded, default) or "qdrant" (external).
	Provider string        `koanf:"provider"`
	Chromem  ChromemConfig `koanf:"chromem"`
	Qdrant   QdrantConfig  `koanf:"qdrant"`
}

// ChromemConfig configures the embedded chromem-go store.
type ChromemConfig struct {
	Path       string `koanf:"path"`
	Compress   bool   `koanf:"compress"`
	Collection string `koanf:"collection"`
	VectorSize int    `koanf:"vector_size"`
}

// QdrantConfig configures the external Qdrant store.
type QdrantConfig struct {
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	UseTLS     bool   `koanf:"use_tls"`
	APIKey     Secret `koanf:"api_key"`
	Collection string `koanf:"collection"`
	VectorSize int    `koanf:"vector_size"`
}

// EmbeddingsConfig configures the local embedding model.
type EmbeddingsConfig struct {
	Model     string `koanf:"model"`
	CacheDir  string `koanf:"cache_dir"`
	MaxLength int    `koanf:"max_length"`
}

// GraphConfig configures the Neo4j knowledge graph connection.
type GraphConfig struct {
	URI      string `koanf:"uri"`
	Username string `koanf:"username"`
	Password Secret `koanf:"password"`
	Database string `koanf:"database"`
}

// MemoryConfig configures the Postgres conversation memory store.
type MemoryConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	Database   string `koanf:"database"`
	User       string `koanf:"user"`
	Password   Secret `koanf:"password"`
	SSLMode    string `koanf:"ssl_mode"`
	VectorSize int    `koanf:"vector_size"`
}

// RetrievalConfig tunes the hybrid retrieval pipeline.
type RetrievalConfig struct {
	// ResultCap bounds the fused ranked list.
	ResultCap int `koanf:"result_cap"`

	// VectorK is the per-expansion-term nearest-neighbor fan-out.
	VectorK int `koanf:"vector_k"`

	// LenientK is the wider fan-out used when expansion terms yield nothing.
	LenientK int `koanf:"lenient_k"`

	// BackendTimeout bounds each retrieval backend call. A timed-out backend
	// contributes zero candidates instead of failing the query.
	BackendTimeout Duration `koanf:"backend_timeout"`
}

// GenerationConfig configures the answer generation model.
type GenerationConfig struct {
	Provider string `koanf:"provider"`
	Model    string `koanf:"model"`
	APIKey   Secret `koanf:"api_key"`
}

// KnowledgeConfig locates knowledge base inputs.
type KnowledgeConfig struct {
	// KBPath is the directory of .txt knowledge base documents for ingestion.
	KBPath string `koanf:"kb_path"`

	// RegistryPath is an optional YAML file overriding the built-in
	// user/document/grant registry.
	RegistryPath string `koanf:"registry_path"`
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in (0, 65535], got %d", c.Server.Port)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	switch c.VectorStore.Provider {
	case "chromem", "qdrant":
	default:
		return fmt.Errorf("vectorstore.provider must be 'chromem' or 'qdrant', got %q", c.VectorStore.Provider)
	}
	if c.Retrieval.ResultCap <= 0 {
		return fmt.Errorf("retrieval.result_cap must be positive, got %d", c.Retrieval.ResultCap)
	}
	if c.Retrieval.BackendTimeout.Duration() <= 0 {
		return fmt.Errorf("retrieval.backend_timeout must be positive")
	}
	if c.Telemetry.Enabled && c.Telemetry.Endpoint == "" {
		return fmt.Errorf("telemetry.endpoint required when telemetry enabled")
	}
	if c.Memory.Enabled {
		if c.Memory.Host == "" || c.Memory.Database == "" || c.Memory.User == "" {
			return fmt.Errorf("memory.host, memory.database and memory.user are required when memory enabled")
		}
	}
	return nil
}
