package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var validate = validator.New()

// Config is the application configuration, built once at startup.
type Config struct {
	Weather  WeatherConfig  `mapstructure:"weather"`
	Football FootballConfig `mapstructure:"football"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Plot     PlotConfig     `mapstructure:"plot"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Server   ServerConfig   `mapstructure:"server"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Log      LogConfig      `mapstructure:"log"`
}

// WeatherConfig selects the tracked location and the forecast source.
type WeatherConfig struct {
	CountryCode string `mapstructure:"country_code" validate:"required,len=2"`
	Zip         string `mapstructure:"zip" validate:"required"`
	Provider    string `mapstructure:"provider" validate:"oneof=weatherbit openmeteo openweather weatherapi"`
	APIKey      string `mapstructure:"api_key"`
	// Field is the daily value that is charted (max_temp, min_temp, ...).
	Field             string   `mapstructure:"field" validate:"required"`
	Reference         string   `mapstructure:"reference" validate:"oneof=nowcast earliest"`
	KeepNegativeLeads bool     `mapstructure:"keep_negative_leads"`
	Lat               *float64 `mapstructure:"lat" validate:"omitempty,latitude"`
	Lon               *float64 `mapstructure:"lon" validate:"omitempty,longitude"`
	GeocoderAPIKey    string   `mapstructure:"geocoder_api_key"`
}

// FootballConfig selects the season results that are compared.
type FootballConfig struct {
	Country string `mapstructure:"country" validate:"required"`
	Players []int  `mapstructure:"players" validate:"len=2,dive,gt=0"`
}

// StorageConfig configures where snapshots are kept.
type StorageConfig struct {
	DataDir string `mapstructure:"data_dir" validate:"required"`
}

// PlotConfig configures chart and animation output.
type PlotConfig struct {
	OutputDir  string        `mapstructure:"output_dir" validate:"required"`
	Width      int           `mapstructure:"width" validate:"gte=200"`
	Height     int           `mapstructure:"height" validate:"gte=150"`
	FrameDelay time.Duration `mapstructure:"frame_delay" validate:"gt=0"`
}

// HTTPConfig configures outbound provider requests.
type HTTPConfig struct {
	Timeout         time.Duration `mapstructure:"timeout" validate:"gt=0"`
	MaxRetries      int           `mapstructure:"max_retries" validate:"gte=0"`
	InitialInterval time.Duration `mapstructure:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval"`
	// RateLimit is requests per second per provider; 0 disables limiting.
	RateLimit float64 `mapstructure:"rate_limit" validate:"gte=0"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Port string `mapstructure:"port" validate:"required,numeric"`
	// FetchAt is the daily UTC time (HH:MM) of the scheduled refresh.
	FetchAt string `mapstructure:"fetch_at" validate:"required,datetime=15:04"`
}

// TelegramConfig configures run notifications.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token" validate:"required_if=Enabled true"`
	ChatID   int64  `mapstructure:"chat_id" validate:"required_if=Enabled true"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=json console"`
}

// Load reads configuration from the config file at path, a .env file in the
// working directory and the environment. An empty path looks for an
// optional config.toml in the working directory.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("FORECAST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("weather.api_key", "FORECAST_WEATHER_API_KEY", "API_KEY")
	_ = v.BindEnv("log.level", "FORECAST_LOG_LEVEL", "LOG_LEVEL")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}
	applyLegacyKeys(v, &cfg)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("weather.country_code", "")
	v.SetDefault("weather.zip", "")
	v.SetDefault("weather.provider", "weatherbit")
	v.SetDefault("weather.api_key", "")
	v.SetDefault("weather.field", "max_temp")
	v.SetDefault("weather.reference", "nowcast")
	v.SetDefault("weather.keep_negative_leads", false)
	v.SetDefault("weather.geocoder_api_key", "")

	v.SetDefault("football.country", "")
	v.SetDefault("football.players", []int{154, 874})

	v.SetDefault("storage.data_dir", "data")

	v.SetDefault("plot.output_dir", "plots")
	v.SetDefault("plot.width", 800)
	v.SetDefault("plot.height", 600)
	v.SetDefault("plot.frame_delay", time.Second)

	v.SetDefault("http.timeout", 10*time.Second)
	v.SetDefault("http.max_retries", 0)
	v.SetDefault("http.initial_interval", 500*time.Millisecond)
	v.SetDefault("http.max_interval", 5*time.Second)
	v.SetDefault("http.rate_limit", 0)

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.fetch_at", "06:00")

	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// applyLegacyKeys accepts the flat country_code/zip/football_country keys of
// older config files.
func applyLegacyKeys(v *viper.Viper, cfg *Config) {
	if cfg.Weather.CountryCode == "" {
		cfg.Weather.CountryCode = v.GetString("country_code")
	}
	if cfg.Weather.Zip == "" {
		cfg.Weather.Zip = v.GetString("zip")
	}
	if cfg.Football.Country == "" {
		cfg.Football.Country = v.GetString("football_country")
	}
	cfg.Weather.CountryCode = strings.ToUpper(cfg.Weather.CountryCode)
	cfg.Football.Country = strings.ToLower(cfg.Football.Country)
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	for name, section := range map[string]any{
		"storage": c.Storage,
		"plot":    c.Plot,
		"http":    c.HTTP,
		"log":     c.Log,
	} {
		if err := validate.Struct(section); err != nil {
			return eris.Wrapf(err, "config: invalid %s settings", name)
		}
	}
	if c.HTTP.MaxRetries > 0 && c.HTTP.InitialInterval <= 0 {
		return eris.New("config: http.initial_interval must be positive when retries are enabled")
	}
	return nil
}

// ValidateWeather checks the settings of the weather pipeline.
func (c *Config) ValidateWeather() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := validate.Struct(c.Weather); err != nil {
		return eris.Wrap(err, "config: invalid weather settings")
	}
	if (c.Weather.Lat == nil) != (c.Weather.Lon == nil) {
		return eris.New("config: weather.lat and weather.lon must be set together")
	}
	if c.Weather.Provider != "openmeteo" && c.Weather.APIKey == "" {
		return eris.Errorf("config: API_KEY is required for provider %q", c.Weather.Provider)
	}
	if err := validate.Struct(c.Telegram); err != nil {
		return eris.Wrap(err, "config: invalid telegram settings")
	}
	return nil
}

// ValidateServer checks the settings of the serve command.
func (c *Config) ValidateServer() error {
	if err := c.ValidateWeather(); err != nil {
		return err
	}
	if err := validate.Struct(c.Server); err != nil {
		return eris.Wrap(err, "config: invalid server settings")
	}
	return nil
}

// ValidateFootball checks the settings of the football pipeline.
func (c *Config) ValidateFootball() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := validate.Struct(c.Football); err != nil {
		return eris.Wrap(err, "config: invalid football settings")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
