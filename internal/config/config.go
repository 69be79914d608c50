package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"driftroad/internal/round"
)

// FileName is the config file looked up in the config directory.
const FileName = "driftroad.cfg.json"

var ErrInvalid = errors.New("invalid config")

type RoadConfig struct {
	Width     float64 `json:"width" mapstructure:"width"`
	Thickness float64 `json:"thickness" mapstructure:"thickness"`
}

type DriveConfig struct {
	FrameScaled bool `json:"frameScaled" mapstructure:"frameScaled"`
}

type AudioConfig struct {
	Enabled      bool    `json:"enabled" mapstructure:"enabled"`
	SfxVolume    float64 `json:"sfxVolume" mapstructure:"sfxVolume"`
	EngineVolume float64 `json:"engineVolume" mapstructure:"engineVolume"`
}

type ScoreboardConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

type WindowConfig struct {
	Width  int `json:"width" mapstructure:"width"`
	Height int `json:"height" mapstructure:"height"`
}

// Config is the typed view of all settings.
type Config struct {
	LogLevel   string           `json:"logLevel" mapstructure:"logLevel"`
	LogsDir    string           `json:"logsDir" mapstructure:"logsDir"`
	Seed       uint64           `json:"seed" mapstructure:"seed"` // 0 seeds from the clock
	Level      int              `json:"level" mapstructure:"level"`
	Car        string           `json:"car" mapstructure:"car"`
	Road       RoadConfig       `json:"road" mapstructure:"road"`
	Drive      DriveConfig      `json:"drive" mapstructure:"drive"`
	Audio      AudioConfig      `json:"audio" mapstructure:"audio"`
	Scoreboard ScoreboardConfig `json:"scoreboard" mapstructure:"scoreboard"`
	Window     WindowConfig     `json:"window" mapstructure:"window"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./driftlogs")
	viper.SetDefault("seed", 0)
	viper.SetDefault("level", 1)
	viper.SetDefault("car", round.DefaultCar)

	viper.SetDefault("road.width", 30.0)
	viper.SetDefault("road.thickness", 1.0)

	viper.SetDefault("drive.frameScaled", false)

	viper.SetDefault("audio.enabled", true)
	viper.SetDefault("audio.sfxVolume", 0.8)
	viper.SetDefault("audio.engineVolume", 0.35)

	viper.SetDefault("scoreboard.enabled", true)
	viper.SetDefault("scoreboard.path", "./driftroad.db")

	viper.SetDefault("window.width", 1024)
	viper.SetDefault("window.height", 768)
}

// Load reads configuration from the JSON file in configDir, on top of the
// defaults. A missing file is not an error. DRIFTROAD_* environment
// variables override both, with dots in keys written as underscores
// (DRIFTROAD_ROAD_WIDTH).
func Load(configDir string) error {
	setDefaults()

	viper.SetEnvPrefix("DRIFTROAD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.AddConfigPath(configDir)
	viper.SetConfigType("json")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// Get decodes and validates the loaded settings.
func Get() (Config, error) {
	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	switch {
	case c.Road.Width <= 0:
		return fmt.Errorf("%w: road.width must be positive, got %v", ErrInvalid, c.Road.Width)
	case c.Road.Thickness <= 0:
		return fmt.Errorf("%w: road.thickness must be positive, got %v", ErrInvalid, c.Road.Thickness)
	case c.Level < 1:
		return fmt.Errorf("%w: level must be at least 1, got %d", ErrInvalid, c.Level)
	case c.Audio.SfxVolume < 0 || c.Audio.SfxVolume > 1:
		return fmt.Errorf("%w: audio.sfxVolume must be in [0,1], got %v", ErrInvalid, c.Audio.SfxVolume)
	case c.Audio.EngineVolume < 0 || c.Audio.EngineVolume > 1:
		return fmt.Errorf("%w: audio.engineVolume must be in [0,1], got %v", ErrInvalid, c.Audio.EngineVolume)
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	if _, ok := round.LookupCar(c.Car); !ok {
		return fmt.Errorf("%w: unknown car %q", ErrInvalid, c.Car)
	}
	return nil
}

// CarModel returns the configured car; Validate guarantees it exists.
func (c Config) CarModel() round.CarModel {
	m, _ := round.LookupCar(c.Car)
	return m
}

// ResolveSeed returns the configured seed, or one taken from now when unset.
func (c Config) ResolveSeed(now time.Time) uint64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return uint64(now.UnixNano())
}
