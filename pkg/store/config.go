package store

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Config describes where catalogs live and how they are written.
type Config interface {
	BasePath() string
	RecordsPath() string
	Kind() string
	Sections() []string
	FlushDebounce() time.Duration
	WriteTimeout() time.Duration
	WriteRetries() int
	Model() string
}

// LoadConfig reads .navtree.yaml from $NAVTREE_CONFIG_PATH or the working
// directory. Every key can be overridden with a NAVTREE_ environment variable.
func LoadConfig() (Config, error) {
	v := viper.New()
	v.SetDefault("path", "~/.navtree.db")
	v.SetDefault("records_path", "")
	v.SetDefault("kind", "navigation")
	v.SetDefault("sections", []string{"main"})
	v.SetDefault("flush_debounce", DefaultFlushDebounce)
	v.SetDefault("write_timeout", DefaultWriteTimeout)
	v.SetDefault("write_retries", DefaultWriteRetries)
	v.SetDefault("model", "page")
	v.SetConfigName(".navtree") // .yaml is implicit
	v.SetEnvPrefix("NAVTREE")
	v.AutomaticEnv()

	if override := os.Getenv("NAVTREE_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	base, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, err
	}
	records := v.GetString("records_path")
	if records == "" {
		records = filepath.Join(base, "records")
	}
	records, err = homedir.Expand(records)
	if err != nil {
		return nil, err
	}

	return &fileConfig{
		Path:        base,
		Records:     records,
		CatalogKind: v.GetString("kind"),
		SectionIDs:  v.GetStringSlice("sections"),
		Debounce:    v.GetDuration("flush_debounce"),
		Timeout:     v.GetDuration("write_timeout"),
		Retries:     v.GetInt("write_retries"),
		RecordModel: v.GetString("model"),
	}, nil
}

type fileConfig struct {
	Path        string        `json:"path"`
	Records     string        `json:"recordsPath"`
	CatalogKind string        `json:"kind"`
	SectionIDs  []string      `json:"sections"`
	Debounce    time.Duration `json:"flushDebounce"`
	Timeout     time.Duration `json:"writeTimeout"`
	Retries     int           `json:"writeRetries"`
	RecordModel string        `json:"model"`
}

func (f *fileConfig) BasePath() string             { return f.Path }
func (f *fileConfig) RecordsPath() string          { return f.Records }
func (f *fileConfig) Kind() string                 { return f.CatalogKind }
func (f *fileConfig) Sections() []string           { return f.SectionIDs }
func (f *fileConfig) FlushDebounce() time.Duration { return f.Debounce }
func (f *fileConfig) WriteTimeout() time.Duration  { return f.Timeout }
func (f *fileConfig) WriteRetries() int            { return f.Retries }
func (f *fileConfig) Model() string                { return f.RecordModel }

// OptionsFromConfig maps the write settings of cfg onto store options.
func OptionsFromConfig(cfg Config) []Option {
	return []Option{
		WithFlushDebounce(cfg.FlushDebounce()),
		WithWriteTimeout(cfg.WriteTimeout()),
		WithWriteRetries(cfg.WriteRetries()),
	}
}
