package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	GraphPath string // hcl file or directory

	LogFormat       string
	LogLevel        string
	HealthcheckPort int
	// Workers bounds the tiles processed concurrently. 0 selects GOMAXPROCS.
	Workers int
	// Watch is the graph document poll interval. 0 evaluates once and exits.
	Watch time.Duration
	// ViewerURL is the socket.io endpoint receiving node updates, if any.
	ViewerURL string
	// ExportDir is where export nodes resolve relative file names.
	ExportDir string
	// SavePath receives the evaluated graph as one normalized HCL
	// document. Empty disables saving.
	SavePath string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.GraphPath == "" {
		return nil, errors.New("GraphPath is a required configuration field and cannot be empty")
	}
	if cfg.Workers < 0 {
		return nil, errors.New("workers must not be negative")
	}
	if cfg.Watch < 0 {
		return nil, errors.New("watch interval must not be negative")
	}
	if cfg.ExportDir == "" {
		cfg.ExportDir = "."
	}
	return &cfg, nil
}
