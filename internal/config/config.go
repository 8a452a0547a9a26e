package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"hexxagon/internal/game"
	"hexxagon/internal/session"
)

var (
	cfgFile = "hexxagon/config.json"
	logFile = "hexxagon/hexxagon.log"
)

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("Config error: %s", e.err)
}

// Config 应用配置，保存在 $XDG_CONFIG_HOME/hexxagon/config.json
type Config struct {
	Mode        string  `json:"mode"`
	FirstPlayer int     `json:"first_player"`
	Depth1      int     `json:"depth1"`
	Depth2      int     `json:"depth2"`
	MoveDelayMS int     `json:"move_delay_ms"`
	LogLevel    string  `json:"log_level"`
	WindowScale float64 `json:"window_scale"`
	Sound       bool    `json:"sound"`
}

// InitConfig returns the defaults overlaid with the user's config file, if any.
func InitConfig() (*Config, error) {
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		config := DefaultConfig
		return &config, nil
	}
	return Load(absPath)
}

// Load reads the config file at path on top of the defaults.
func Load(path string) (*Config, error) {
	config := DefaultConfig
	if err := readCfgFile(path, &config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) Validate() error {
	if _, err := session.ParseMode(c.Mode); err != nil {
		return &InvalidConfig{fmt.Sprintf("unknown mode %q (want hvh, hvc or cvc)", c.Mode)}
	}
	if c.FirstPlayer != 1 && c.FirstPlayer != 2 {
		return &InvalidConfig{fmt.Sprintf("first_player must be 1 or 2, got %d", c.FirstPlayer)}
	}
	for _, d := range []int{c.Depth1, c.Depth2} {
		if d < 0 || d > game.MaxDepth {
			return &InvalidConfig{fmt.Sprintf("depth must be between 0 and %d, got %d", game.MaxDepth, d)}
		}
	}
	if c.MoveDelayMS < 0 {
		return &InvalidConfig{"move_delay_ms must not be negative"}
	}
	if c.WindowScale <= 0 {
		return &InvalidConfig{"window_scale must be positive"}
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return &InvalidConfig{fmt.Sprintf("unknown log_level %q", c.LogLevel)}
	}
	return nil
}

// MoveDelay is the shortest time a computer move takes to appear.
func (c *Config) MoveDelay() time.Duration {
	return time.Duration(c.MoveDelayMS) * time.Millisecond
}

// Settings converts the game part of the config for session.Controller.Start.
func (c *Config) Settings() (session.Settings, error) {
	mode, err := session.ParseMode(c.Mode)
	if err != nil {
		return session.Settings{}, err
	}
	s := session.Settings{
		First:  game.CellState(c.FirstPlayer),
		Mode:   mode,
		Depth1: c.Depth1,
		Depth2: c.Depth2,
	}
	return s, s.Validate()
}

// Save writes the config to the user's config directory.
func (c *Config) Save() error {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return err
	}
	return saveCfgFile(absPath, c, 0664)
}

// RegisterFlags binds command-line flags to c, using the current values as
// defaults. Parsing fs afterwards overrides whatever was loaded from the file.
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Mode, "mode", c.Mode, "game mode: hvh, hvc or cvc")
	fs.IntVar(&c.FirstPlayer, "first", c.FirstPlayer, "player to move first (1 or 2)")
	fs.IntVar(&c.Depth1, "depth1", c.Depth1, "search depth of the computer in hvc, and of player 1 in cvc (0-2)")
	fs.IntVar(&c.Depth2, "depth2", c.Depth2, "search depth of player 2 in cvc (0-2)")
	fs.IntVar(&c.MoveDelayMS, "delay", c.MoveDelayMS, "shortest time a computer move takes, in milliseconds")
	fs.StringVar(&c.LogLevel, "log", c.LogLevel, "log level (debug, info, warn, error)")
	fs.Float64Var(&c.WindowScale, "scale", c.WindowScale, "window scale")
	fs.BoolVar(&c.Sound, "sound", c.Sound, "play sound effects")
}

// SetupLogging points the global logger at w with the configured level.
func (c *Config) SetupLogging(w io.Writer, color bool) {
	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: !color, TimeFormat: time.TimeOnly}).
		With().Timestamp().Logger()
}

// OpenLogFile opens the log file under the xdg state directory for appending.
// The terminal front end logs there so the screen is left alone.
func OpenLogFile() (*os.File, error) {
	absPath, err := xdg.StateFile(logFile)
	if err != nil {
		return nil, err
	}
	return os.OpenFile(absPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
}

func saveCfgFile(filePath string, a interface{}, perm fs.FileMode) error {
	jsonData, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filePath, jsonData, perm)
}

func readCfgFile(filePath string, a interface{}) error {
	data, err := os.ReadFile(filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, a); err != nil {
		return &InvalidConfig{fmt.Sprintf("%s: %v", filePath, err)}
	}
	return nil
}
