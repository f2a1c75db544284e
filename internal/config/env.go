package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AIAPIKey     string
	EmbedModel   string
	GenModel     string
	Port         string
	ChunkSize    int
	ChunkOverlap int
	TTSMaxChars  int
	VoiceTimeout time.Duration
	TopK         int
	SearchRegion string
}

// LoadConfig loads the environment variables and returns config.
// A missing Gemini API key is a fatal configuration error: the process must
// not proceed to serve any session without it.
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		AIAPIKey:     getEnv("GEMINI_API_KEY", ""),
		EmbedModel:   getEnv("EMBED_MODEL", "embedding-001"),
		GenModel:     getEnv("GEN_MODEL", "gemini-1.5-flash"),
		Port:         getEnv("PORT", "8080"),
		ChunkSize:    getEnvInt("CHUNK_SIZE", 1000),
		ChunkOverlap: getEnvInt("CHUNK_OVERLAP", 200),
		TTSMaxChars:  getEnvInt("TTS_MAX_CHARS", 4500),
		VoiceTimeout: getEnvDuration("VOICE_TIMEOUT", 5*time.Second),
		TopK:         getEnvInt("RETRIEVAL_TOP_K", 4),
		SearchRegion: getEnv("SEARCH_REGION", "in-en"),
	}

	if cfg.AIAPIKey == "" {
		log.Fatal("GEMINI_API_KEY not set")
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		log.Fatalf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("WARN: %s=%q not a duration, using default %s", key, v, def)
		return def
	}
	return d
}
