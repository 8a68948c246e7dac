// Package config loads punchclock settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ksteinfeldt/punchclock/internal/ledger"
	"github.com/ksteinfeldt/punchclock/internal/rates"
)

// EnvVarHome overrides the data directory from the config file.
const EnvVarHome = "PUNCHCLOCK_HOME"

// ErrInvalidConfig indicates a config value is out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the on-disk configuration.
type Config struct {
	// DataDir holds the rate store, the time log and the log file.
	DataDir string `toml:"data_dir"`

	// RatesFile and LedgerFile are relative to DataDir unless absolute.
	RatesFile  string `toml:"rates_file"`
	LedgerFile string `toml:"ledger_file"`

	// LogFile receives structured logs; "-" disables file logging.
	LogFile  string `toml:"log_file"`
	LogLevel string `toml:"log_level"`

	Manager ManagerConfig `toml:"manager"`
	Keys    KeysConfig    `toml:"keys"`
}

// ManagerConfig holds the manager-tools secret. SecretHash wins when set.
type ManagerConfig struct {
	Secret     string `toml:"secret,omitempty"`
	SecretHash string `toml:"secret_hash,omitempty"`
}

// KeysConfig holds the terminal UI key bindings.
type KeysConfig struct {
	PunchIn  []string `toml:"punch_in"`
	PunchOut []string `toml:"punch_out"`
	Report   []string `toml:"report"`
	Manager  []string `toml:"manager"`
	Help     []string `toml:"help"`
	Quit     []string `toml:"quit"`
}

// DefaultConfig returns the defaults. Data files live in the working directory.
func DefaultConfig() *Config {
	return &Config{
		DataDir:    ".",
		RatesFile:  rates.DefaultFileName,
		LedgerFile: ledger.DefaultFileName,
		LogFile:    "punchclock.log",
		LogLevel:   "info",
		Keys:       defaultKeys(),
	}
}

func defaultKeys() KeysConfig {
	return KeysConfig{
		PunchIn:  []string{"f1", "ctrl+p"},
		PunchOut: []string{"f2", "ctrl+o"},
		Report:   []string{"f3", "ctrl+r"},
		Manager:  []string{"f4", "ctrl+g"},
		Help:     []string{"f5"},
		Quit:     []string{"esc", "ctrl+c"},
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("finding config directory: %w", err)
	}
	return filepath.Join(dir, "punchclock", "config.toml"), nil
}

// Load reads the config at path (DefaultPath when empty). A missing file
// yields defaults, not an error. PUNCHCLOCK_HOME overrides data_dir.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	if home := os.Getenv(EnvVarHome); home != "" {
		cfg.DataDir = home
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFile decodes the file at path over the defaults, without environment
// overrides or validation. Use it to edit and save the file as written.
func ReadFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	cfg.fillDefaults()
	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	f, err := os.Create(path) //nolint:gosec // G304: path from flag or user config dir
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// fillDefaults restores anything a partial file left empty.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.DataDir == "" {
		c.DataDir = d.DataDir
	}
	if c.RatesFile == "" {
		c.RatesFile = d.RatesFile
	}
	if c.LedgerFile == "" {
		c.LedgerFile = d.LedgerFile
	}
	if c.LogFile == "" {
		c.LogFile = d.LogFile
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if len(c.Keys.PunchIn) == 0 {
		c.Keys.PunchIn = d.Keys.PunchIn
	}
	if len(c.Keys.PunchOut) == 0 {
		c.Keys.PunchOut = d.Keys.PunchOut
	}
	if len(c.Keys.Report) == 0 {
		c.Keys.Report = d.Keys.Report
	}
	if len(c.Keys.Manager) == 0 {
		c.Keys.Manager = d.Keys.Manager
	}
	if len(c.Keys.Help) == 0 {
		c.Keys.Help = d.Keys.Help
	}
	if len(c.Keys.Quit) == 0 {
		c.Keys.Quit = d.Keys.Quit
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level %q must be debug, info, warn or error", ErrInvalidConfig, c.LogLevel)
	}
	if filepath.Clean(c.RatesPath()) == filepath.Clean(c.LedgerPath()) {
		return fmt.Errorf("%w: rates_file and ledger_file must differ", ErrInvalidConfig)
	}
	return nil
}

// RatesPath returns the resolved rate store path.
func (c *Config) RatesPath() string {
	return c.resolve(c.RatesFile)
}

// LedgerPath returns the resolved time log path.
func (c *Config) LedgerPath() string {
	return c.resolve(c.LedgerFile)
}

// LogPath returns the resolved log file path, or "" when file logging is off.
func (c *Config) LogPath() string {
	if strings.TrimSpace(c.LogFile) == "-" {
		return ""
	}
	return c.resolve(c.LogFile)
}

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}
