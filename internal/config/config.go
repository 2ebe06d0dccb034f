package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// LLMConfig describes one OpenAI-compatible endpoint, either for chat
// completion or for embeddings.
type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Key         string  `yaml:"key"`
	KeyEnv      string  `yaml:"key_env"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
}

type RAGConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap"`
	TopK         int `yaml:"top_k"`
	PreviewChars int `yaml:"preview_chars"`
}

type ServerConfig struct {
	Addr          string `yaml:"addr"`
	MaxUploadSize int64  `yaml:"max_upload_size"`
}

type Config struct {
	ChatLLM  LLMConfig    `yaml:"chat_llm"`
	EmbedLLM LLMConfig    `yaml:"embed_llm"`
	RAG      RAGConfig    `yaml:"rag"`
	Server   ServerConfig `yaml:"server"`
}

const (
	defaultChunkSize     = 1000
	defaultChunkOverlap  = 200
	defaultTopK          = 4
	defaultPreviewChars  = 2000
	defaultAddr          = ":8501"
	defaultMaxUploadSize = 32 << 20 // bytes
)

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.RAG.ChunkSize <= 0 {
		cfg.RAG.ChunkSize = defaultChunkSize
	}
	if cfg.RAG.ChunkOverlap <= 0 {
		cfg.RAG.ChunkOverlap = defaultChunkOverlap
	}
	if cfg.RAG.TopK <= 0 {
		cfg.RAG.TopK = defaultTopK
	}
	if cfg.RAG.PreviewChars <= 0 {
		cfg.RAG.PreviewChars = defaultPreviewChars
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultAddr
	}
	if cfg.Server.MaxUploadSize <= 0 {
		cfg.Server.MaxUploadSize = defaultMaxUploadSize
	}
	resolveKey(&cfg.ChatLLM)
	resolveKey(&cfg.EmbedLLM)
}

// resolveKey lets the yaml file name an environment variable instead of
// carrying the API key inline.
func resolveKey(llm *LLMConfig) {
	if llm.Key == "" && llm.KeyEnv != "" {
		llm.Key = os.Getenv(llm.KeyEnv)
	}
}
