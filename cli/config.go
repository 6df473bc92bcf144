package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v3"

	"opendwg/dlog"
	"opendwg/dwg"
	"opendwg/dwg/dheader"
	"opendwg/export"
)

type (
	LogConfig struct {
		Directory  string `yaml:"directory"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxAgeDays int    `yaml:"max_age_days"`
		MaxBackups int    `yaml:"max_backups"`
		Compress   bool   `yaml:"compress"`
	}

	Config struct {
		ReadMode           dheader.ReadMode `yaml:"read_mode"`
		IncludeUnsupported bool             `yaml:"include_unsupported"`
		Verbose            bool             `yaml:"verbose"`
		Logs               LogConfig        `yaml:"logs"`
		Export             export.Options   `yaml:"export"`
	}
)

const (
	logFileName = "opendwg.log"
)

func DefaultConfig() Config {
	return Config{
		ReadMode: dheader.ReadAll,
		Export:   export.DefaultOptions(),
	}.withDefaults()
}

// LoadConfig reads the YAML file at path over the defaults. An empty path
// yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrap(err, "LoadConfig error")
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return cfg, errors.Wrapf(err, `LoadConfig error decoding "%s"`, path)
	}
	if cfg.Logs.Directory != "" && !filepath.IsAbs(cfg.Logs.Directory) {
		cfg.Logs.Directory = filepath.Clean(filepath.Join(filepath.Dir(path), cfg.Logs.Directory))
	}
	cfg = cfg.withDefaults()
	if !cfg.ReadMode.IsValid() {
		return cfg, errors.Wrapf(dwg.ErrInvalidReadMode, `"%s" in "%s"`, cfg.ReadMode, path)
	}
	return cfg, nil
}

func (c Config) withDefaults() Config {
	if c.ReadMode == "" {
		c.ReadMode = dheader.ReadAll
	}
	if c.Logs.MaxSizeMB <= 0 {
		c.Logs.MaxSizeMB = 25
	}
	if c.Logs.MaxAgeDays <= 0 {
		c.Logs.MaxAgeDays = 7
	}
	if c.Logs.MaxBackups <= 0 {
		c.Logs.MaxBackups = 5
	}
	if c.Export.PDFPage == "" {
		c.Export.PDFPage = export.DefaultOptions().PDFPage
	}
	if c.Export.PDFMarginMM <= 0 {
		c.Export.PDFMarginMM = export.DefaultOptions().PDFMarginMM
	}
	return c
}

// Override applies the global flags on top of the config file.
func (c Config) Override(args Args) (Config, error) {
	if args.ReadMode != "" {
		mode := dheader.ReadMode(args.ReadMode)
		if !mode.IsValid() {
			return c, errors.Wrapf(dwg.ErrInvalidReadMode, `"%s"`, args.ReadMode)
		}
		c.ReadMode = mode
	}
	if args.IncludeUnsupported {
		c.IncludeUnsupported = true
	}
	if args.Verbose {
		c.Verbose = true
	}
	return c, nil
}

func (c Config) DrawingOptions() dwg.Options {
	return dwg.Options{
		ReadMode:           c.ReadMode,
		IncludeUnsupported: c.IncludeUnsupported,
	}
}

// SetupLogging points dlog at stderr and, when a log directory is set, at a
// rotating file next to it. The returned logger is nil without a directory.
func SetupLogging(cfg Config) (*lumberjack.Logger, error) {
	dlog.SetVerbose(cfg.Verbose)
	if cfg.Logs.Directory == "" {
		dlog.SetOutput(os.Stderr)
		return nil, nil
	}
	if err := os.MkdirAll(cfg.Logs.Directory, 0o755); err != nil {
		return nil, errors.Wrap(err, "SetupLogging error creating log directory")
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(cfg.Logs.Directory, logFileName),
		MaxSize:    cfg.Logs.MaxSizeMB,
		MaxAge:     cfg.Logs.MaxAgeDays,
		MaxBackups: cfg.Logs.MaxBackups,
		Compress:   cfg.Logs.Compress,
	}
	dlog.SetOutput(io.MultiWriter(os.Stderr, rotator))
	return rotator, nil
}
