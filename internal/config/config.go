package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Build  BuildConfig  `yaml:"build" mapstructure:"build"`
	Lookup LookupConfig `yaml:"lookup" mapstructure:"lookup"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Fetch  FetchConfig  `yaml:"fetch" mapstructure:"fetch"`
	Geo    GeoConfig    `yaml:"geo" mapstructure:"geo"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// BuildConfig configures discovery and parsing of election result files.
type BuildConfig struct {
	DataDir           string   `yaml:"data_dir" mapstructure:"data_dir"`
	Extensions        []string `yaml:"extensions" mapstructure:"extensions"`
	YearTokens        []string `yaml:"year_tokens" mapstructure:"year_tokens"`
	ExcludeYearTokens []string `yaml:"exclude_year_tokens" mapstructure:"exclude_year_tokens"`
	InputEncoding     string   `yaml:"input_encoding" mapstructure:"input_encoding"`
	HeuristicsPath    string   `yaml:"heuristics_path" mapstructure:"heuristics_path"`
}

// LookupConfig configures the Location ID to county table and its rebuild.
type LookupConfig struct {
	Path      string              `yaml:"path" mapstructure:"path"`
	StateFIPS string              `yaml:"state_fips" mapstructure:"state_fips"`
	Rebuild   LookupRebuildConfig `yaml:"rebuild" mapstructure:"rebuild"`
}

// LookupRebuildConfig configures rebuilding the lookup by vote-rank correlation.
type LookupRebuildConfig struct {
	ModernFile    string `yaml:"modern_file" mapstructure:"modern_file"`
	Contest       string `yaml:"contest" mapstructure:"contest"`
	CountyDir     string `yaml:"county_dir" mapstructure:"county_dir"`
	OfficeKeyword string `yaml:"office_keyword" mapstructure:"office_keyword"`
	OutputPath    string `yaml:"output_path" mapstructure:"output_path"`
}

// OutputConfig configures the consolidated JSON document.
type OutputConfig struct {
	Path              string `yaml:"path" mapstructure:"path"`
	IncludeMetadata   bool   `yaml:"include_metadata" mapstructure:"include_metadata"`
	State             string `yaml:"state" mapstructure:"state"`
	StateAbbreviation string `yaml:"state_abbreviation" mapstructure:"state_abbreviation"`
	Source            string `yaml:"source" mapstructure:"source"`
}

// FetchConfig configures downloading raw county files.
type FetchConfig struct {
	ListingURL  string `yaml:"listing_url" mapstructure:"listing_url"`
	DestDir     string `yaml:"dest_dir" mapstructure:"dest_dir"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	GitHubToken string `yaml:"github_token" mapstructure:"github_token"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
}

// GeoConfig configures shapefile conversion.
type GeoConfig struct {
	ShapefilePath string `yaml:"shapefile_path" mapstructure:"shapefile_path"`
	ZipURL        string `yaml:"zip_url" mapstructure:"zip_url"`
	TempDir       string `yaml:"temp_dir" mapstructure:"temp_dir"`
	OutputPath    string `yaml:"output_path" mapstructure:"output_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. A .env file in the
// working directory is loaded first; variables already set take precedence.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("REALIGN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("build.data_dir", "Data")
	v.SetDefault("build.extensions", []string{".csv", ".xlsx"})
	v.SetDefault("build.year_tokens", []string{"2018", "2020"})
	v.SetDefault("build.exclude_year_tokens", []string{})
	v.SetDefault("build.input_encoding", "utf-8")
	v.SetDefault("lookup.path", "Data/county_lookup.csv")
	v.SetDefault("lookup.state_fips", "05")
	v.SetDefault("lookup.rebuild.modern_file", "Data/2022_General_Federal.csv")
	v.SetDefault("lookup.rebuild.contest", "U.S. Senate")
	v.SetDefault("lookup.rebuild.county_dir", "Data/2020/counties")
	v.SetDefault("lookup.rebuild.office_keyword", "President")
	v.SetDefault("lookup.rebuild.output_path", "Data/county_lookup_NEW.csv")
	v.SetDefault("output.path", "Data/arkansas_county_election_results.json")
	v.SetDefault("output.include_metadata", true)
	v.SetDefault("output.state", "Arkansas")
	v.SetDefault("output.state_abbreviation", "AR")
	v.SetDefault("output.source", "OpenElections Project & Arkansas Secretary of State")
	v.SetDefault("fetch.listing_url", "https://api.github.com/repos/openelections/openelections-data-ar/contents/2022/counties")
	v.SetDefault("fetch.dest_dir", "Data/2022/counties")
	v.SetDefault("fetch.user_agent", "realign/1.0")
	v.SetDefault("fetch.github_token", "")
	v.SetDefault("fetch.timeout_secs", 60)
	v.SetDefault("fetch.max_retries", 3)
	v.SetDefault("fetch.concurrency", 1)
	v.SetDefault("geo.shapefile_path", "Data/tl_2020_05_county20/tl_2020_05_county20.shp")
	v.SetDefault("geo.temp_dir", "/tmp/realign")
	v.SetDefault("geo.output_path", "Data/tl_2020_05_county20.geojson")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
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
