package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

type Config struct {
	Env      string `koanf:"env"`
	Hostname string `koanf:"-"`

	ServerHost string `koanf:"server_host"`
	ServerPort int    `koanf:"server_port"`

	DatabaseFilePath          string        `koanf:"database_file"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout"`

	CacheDir          string `koanf:"cache_dir"`
	CacheMaxSizeBytes int64  `koanf:"cache_max_size_bytes"`

	WorkerProcesses int `koanf:"worker_processes"`

	// Upstream content API. The proxy base serves the qdc resources
	// (reciters, chapter audio, tafsir catalogs).
	ContentAPIBaseURL  string        `koanf:"content_api_base_url"`
	ContentProxyURL    string        `koanf:"content_proxy_base_url"`
	VerseAudioBaseURL  string        `koanf:"verse_audio_base_url"`
	WordAudioBaseURL   string        `koanf:"word_audio_base_url"`
	ReciterPath        string        `koanf:"reciter_path"`
	DefaultTranslation string        `koanf:"default_translation_id"`
	DefaultReciterID   int           `koanf:"default_reciter_id"`
	HTTPTimeout        time.Duration `koanf:"http_timeout"`

	ChaptersCacheTTL time.Duration `koanf:"chapters_cache_ttl"`
	VersesCacheTTL   time.Duration `koanf:"verses_cache_ttl"`
	TafsirCacheTTL   time.Duration `koanf:"tafsir_cache_ttl"`
	FetchRetryCount  int           `koanf:"fetch_retry_count"`

	ExportConcurrency int `koanf:"export_concurrency"`
}

const (
	environmentENV = "ENVIRONMENT"
	configFileENV  = "CONFIG_FILE"
	envPrefix      = "RECITE_"
)

// New loads configuration in three layers: compiled-in defaults, an optional
// YAML config file, and RECITE_* environment variable overrides.
func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{
		DatabaseConnectRetryCount: 5,
		DatabaseConnectRetryDelay: 2 * time.Second,
		DatabaseBusyTimeout:       5 * time.Second,
		Hostname:                  hostname,
		ServerPort:                4114,
		WorkerProcesses:           2,
		CacheMaxSizeBytes:         2 * 1024 * 1024 * 1024,

		ContentAPIBaseURL:  "https://api.quran.com/api/v4",
		ContentProxyURL:    "https://quran.com/api/proxy/content/api/qdc",
		VerseAudioBaseURL:  "https://verses.quran.com/",
		WordAudioBaseURL:   "https://audio.qurancdn.com/",
		ReciterPath:        "Alafasy/mp3",
		DefaultTranslation: "131",
		DefaultReciterID:   7,
		HTTPTimeout:        30 * time.Second,

		ChaptersCacheTTL: time.Hour,
		VersesCacheTTL:   5 * time.Minute,
		TafsirCacheTTL:   15 * time.Minute,
		FetchRetryCount:  3,

		ExportConcurrency: 4,
	}

	switch os.Getenv(environmentENV) {
	case "development", "":
		loadDevelopmentConfig(cfg)
	case "test":
		loadTestConfig(cfg)
	case "production":
		loadProductionConfig(cfg)
	}

	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = "./config.yaml"
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "failed to load config file: %s", configFile)
		}
	}

	// Keys are flat, so RECITE_SERVER_PORT maps to server_port.
	err = k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return cfg, nil
}
