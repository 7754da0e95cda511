package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	triage "github.com/MegaGrindStone/go-ticket-triage"
	"github.com/MegaGrindStone/go-ticket-triage/internal"
	"github.com/MegaGrindStone/go-ticket-triage/llm"
	"github.com/MegaGrindStone/go-ticket-triage/storage"
	"gopkg.in/yaml.v2"
)

const defaultConfigPath = "config.yaml"

type config struct {
	LogLevel    string `yaml:"log_level"`
	Seed        uint64 `yaml:"seed"`
	Concurrency int    `yaml:"concurrency"`

	Data    dataConfig    `yaml:"data"`
	LLM     llm.Config    `yaml:"llm"`
	Cache   cacheConfig   `yaml:"cache"`
	Extract extractConfig `yaml:"extract"`
	Server  serverConfig  `yaml:"server"`
}

type dataConfig struct {
	OutDir     string `yaml:"out_dir"`
	NTotal     int    `yaml:"n_total"`
	NEval      int    `yaml:"n_eval"`
	MaxTokens  int    `yaml:"max_tokens"`
	Tokenizer  string `yaml:"tokenizer"` // tiktoken or bpe
	VocabPath  string `yaml:"vocab_path"`
	MergesPath string `yaml:"merges_path"`
}

type cacheConfig struct {
	Type     string        `yaml:"type"` // none, bolt or redis
	Path     string        `yaml:"path"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type extractConfig struct {
	Repair bool `yaml:"repair"`
}

type serverConfig struct {
	Addr string `yaml:"addr"`
}

func defaultConfig() config {
	return config{
		LogLevel:    "info",
		Seed:        42,
		Concurrency: 4,
		Data: dataConfig{
			OutDir:    "data",
			NTotal:    800,
			NEval:     120,
			MaxTokens: 512,
			Tokenizer: internal.KindTiktoken,
		},
		LLM: llm.Config{
			Type:  llm.TypeOllama,
			Model: "ticket-triage",
		},
		Cache: cacheConfig{
			Type: "none",
			Path: "cache.db",
			Addr: "localhost:6379",
		},
		Server: serverConfig{
			Addr: ":8000",
		},
	}
}

// loadConfig reads path over the defaults. A missing file at the default path is not an error.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == defaultConfigPath {
			return cfg, nil
		}
		return config{}, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return config{}, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

func newLogger(level string, w io.Writer) *slog.Logger {
	logLevel := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
}

type closeFunc func() error

// newCache opens the configured result cache. The returned close function is never nil.
func newCache(cfg cacheConfig, keyPrefix string) (triage.Cache, closeFunc, error) {
	noop := func() error { return nil }

	switch cfg.Type {
	case "", "none":
		return nil, noop, nil
	case "bolt":
		b, err := storage.NewBolt(cfg.Path)
		if err != nil {
			return nil, noop, err
		}
		return b, b.Close, nil
	case "redis":
		r, err := storage.NewRedis(cfg.Addr, cfg.Password, cfg.DB, keyPrefix, cfg.TTL)
		if err != nil {
			return nil, noop, err
		}
		return r, r.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}

// newClassifier wires the configured backend and cache into a Classifier.
func newClassifier(cfg config, logger *slog.Logger) (*triage.Classifier, closeFunc, error) {
	completer, err := llm.New(cfg.LLM, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create llm: %w", err)
	}

	cache, closeCache, err := newCache(cfg.Cache, "triage:")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open cache: %w", err)
	}

	classifier := triage.NewClassifier(completer, triage.DefaultTaxonomy(), logger,
		triage.WithCache(cache),
		triage.WithCacheKeyPrefix(cfg.LLM.Type+"/"+cfg.LLM.Model),
		triage.WithRepair(cfg.Extract.Repair),
	)

	return classifier, closeCache, nil
}
