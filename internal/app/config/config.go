package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Settings is the illuminator configuration, loaded from a YAML file
// with environment overrides applied on top.
type Settings struct {
	DatabasePath string `yaml:"database_path"`
	SimulationID string `yaml:"simulation_id"`

	Backend        string `yaml:"backend"`   // claude-cli, gemini, mock
	BackendBin     string `yaml:"bin"`       // CLI binary for claude-cli
	Model          string `yaml:"model"`     // model name for gemini
	APIKeyEnv      string `yaml:"api_key_env"`
	StepTimeoutSec int    `yaml:"step_timeout_sec"`
	LockTTLSec     int    `yaml:"lock_ttl_sec"`

	Archive ArchiveSettings `yaml:"archive"`

	LogLevel string `yaml:"log_level"`
}

// ArchiveSettings configures the export destination
type ArchiveSettings struct {
	Type    string `yaml:"type"` // local, s3, mock
	BaseDir string `yaml:"base_dir"`
	Bucket  string `yaml:"bucket"`
	Prefix  string `yaml:"prefix"`
	Region  string `yaml:"region"`
}

// StepTimeout returns the per-step timeout as a Duration
func (s *Settings) StepTimeout() time.Duration {
	return time.Duration(s.StepTimeoutSec) * time.Second
}

// LockTTL returns the run lock lease duration
func (s *Settings) LockTTL() time.Duration {
	return time.Duration(s.LockTTLSec) * time.Second
}

// Load reads settings from path, applies env overrides and defaults.
// A missing settings file is not an error; defaults apply.
func Load(fs afero.Fs, path string) (*Settings, error) {
	s := &Settings{}

	data, err := afero.ReadFile(fs, path)
	if err == nil {
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("parse settings %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}

	s.applyEnv()
	s.applyDefaults()
	return s, nil
}

func (s *Settings) applyEnv() {
	if v := os.Getenv("ILLUMINATOR_DB"); v != "" {
		s.DatabasePath = v
	}
	if v := os.Getenv("ILLUMINATOR_SIMULATION"); v != "" {
		s.SimulationID = v
	}
	if v := os.Getenv("ILLUMINATOR_BACKEND"); v != "" {
		s.Backend = v
	}
	if v := os.Getenv("ILLUMINATOR_BIN"); v != "" {
		s.BackendBin = v
	}
	if v := os.Getenv("ILLUMINATOR_MODEL"); v != "" {
		s.Model = v
	}
	if v := os.Getenv("ILLUMINATOR_STEP_TIMEOUT_SEC"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			s.StepTimeoutSec = sec
		}
	}
	if v := os.Getenv("ILLUMINATOR_LOCK_TTL_SEC"); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			s.LockTTLSec = sec
		}
	}
	if v := os.Getenv("ILLUMINATOR_ARCHIVE_TYPE"); v != "" {
		s.Archive.Type = v
	}
	if v := os.Getenv("ILLUMINATOR_ARCHIVE_BUCKET"); v != "" {
		s.Archive.Bucket = v
	}
	if v := os.Getenv("ILLUMINATOR_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
}

func (s *Settings) applyDefaults() {
	if s.Backend == "" {
		s.Backend = "claude-cli"
	}
	if s.StepTimeoutSec <= 0 {
		s.StepTimeoutSec = 600
	}
	if s.LockTTLSec <= 0 {
		s.LockTTLSec = 600
	}
	if s.Archive.Type == "" {
		s.Archive.Type = "local"
	}
	if s.LogLevel == "" {
		s.LogLevel = "info"
	}
}
