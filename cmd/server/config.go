package main

import (
	"fmt"
	"io"

	"github.com/caarlos0/env/v11"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	CatalogPath string `env:"ICONHUNT_CATALOG"`
	IconDir     string `env:"ICONHUNT_ICON_DIR" envDefault:"img"`
	AssetBase   string `env:"ICONHUNT_ASSET_BASE"`
	Seed        uint64 `env:"ICONHUNT_SEED"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text"`
}

func ParseConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func configureLogging(cfg Config, out io.Writer) error {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	switch cfg.LogFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	case "text":
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	log.SetOutput(out)
	return nil
}
