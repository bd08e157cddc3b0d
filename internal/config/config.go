package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config is the root application configuration
type Config struct {
	TMDB      TMDBConfig      `mapstructure:"tmdb" yaml:"tmdb"`
	Subtitles SubtitlesConfig `mapstructure:"subtitles" yaml:"subtitles"`
	Feeds     FeedsConfig     `mapstructure:"feeds" yaml:"feeds"`
	MyList    MyListConfig    `mapstructure:"mylist" yaml:"mylist"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Logging   LoggingConfig   `mapstructure:"logging" yaml:"logging"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Advanced  AdvancedConfig  `mapstructure:"advanced" yaml:"advanced"`
}

// TMDBConfig configures the metadata provider
type TMDBConfig struct {
	BaseURL  string        `mapstructure:"base_url" yaml:"base_url"`
	ImageURL string        `mapstructure:"image_url" yaml:"image_url"`
	APIKey   string        `mapstructure:"api_key" yaml:"api_key"`
	Language string        `mapstructure:"language" yaml:"language"`
	Timeout  time.Duration `mapstructure:"timeout" yaml:"timeout"`
	PageSize int           `mapstructure:"page_size" yaml:"page_size"`
}

// SubtitlesConfig configures the subtitle provider
type SubtitlesConfig struct {
	BaseURL         string        `mapstructure:"base_url" yaml:"base_url"`
	UserAgent       string        `mapstructure:"user_agent" yaml:"user_agent"`
	Language        string        `mapstructure:"language" yaml:"language"`
	Sort            string        `mapstructure:"sort" yaml:"sort"` // smart, popular, recent
	SearchTimeout   time.Duration `mapstructure:"search_timeout" yaml:"search_timeout"`
	DownloadTimeout time.Duration `mapstructure:"download_timeout" yaml:"download_timeout"`
}

// Feed is a single catalog list endpoint rendered as a category
type Feed struct {
	Title string `mapstructure:"title" yaml:"title"`
	Path  string `mapstructure:"path" yaml:"path"`
	// Kind is used for entries that don't carry a media_type (e.g. /movie/popular)
	Kind string `mapstructure:"kind" yaml:"kind,omitempty"`
}

// FeedSet is the home layout for one tab
type FeedSet struct {
	Hero     Feed   `mapstructure:"hero" yaml:"hero"`
	Priority []Feed `mapstructure:"priority" yaml:"priority"`
	Lazy     []Feed `mapstructure:"lazy" yaml:"lazy"`
}

// FeedsConfig holds the home layout per tab kind
type FeedsConfig struct {
	All   FeedSet `mapstructure:"all" yaml:"all"`
	Movie FeedSet `mapstructure:"movie" yaml:"movie"`
	TV    FeedSet `mapstructure:"tv" yaml:"tv"`
}

// MyListConfig configures the saved-items store
type MyListConfig struct {
	Backend       string `mapstructure:"backend" yaml:"backend"` // sqlite, redis
	Key           string `mapstructure:"key" yaml:"key"`
	RedisAddr     string `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password" yaml:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db" yaml:"redis_db"`
}

// DatabaseConfig configures the local SQLite database
type DatabaseConfig struct {
	Path           string `mapstructure:"path" yaml:"path"`
	MaxConnections int    `mapstructure:"max_connections" yaml:"max_connections"`
	WALMode        bool   `mapstructure:"wal_mode" yaml:"wal_mode"`
	AutoVacuum     bool   `mapstructure:"auto_vacuum" yaml:"auto_vacuum"`
}

// LoggingConfig configures the application logger
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"` // text, json
	File       string `mapstructure:"file" yaml:"file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
	Color      bool   `mapstructure:"color" yaml:"color"`
}

// ServerConfig configures the JSON API server
type ServerConfig struct {
	Address string `mapstructure:"address" yaml:"address"`
}

// AdvancedConfig holds debugging switches
type AdvancedConfig struct {
	Debug bool `mapstructure:"debug" yaml:"debug"`
	// ClipboardCommand overrides clipboard detection, e.g. "wl-copy" or "clip.exe"
	ClipboardCommand string `mapstructure:"clipboard_command" yaml:"clipboard_command"`
}

// FeedSet returns the layout for a tab kind ("all", "movie", "tv")
func (c FeedsConfig) FeedSet(kind string) (FeedSet, bool) {
	switch kind {
	case "all":
		return c.All, true
	case "movie":
		return c.Movie, true
	case "tv":
		return c.TV, true
	default:
		return FeedSet{}, false
	}
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("tmdb.base_url", "https://api.themoviedb.org/3")
	v.SetDefault("tmdb.image_url", "https://image.tmdb.org/t/p")
	v.SetDefault("tmdb.api_key", "")
	v.SetDefault("tmdb.language", "en-US")
	v.SetDefault("tmdb.timeout", 10*time.Second)
	v.SetDefault("tmdb.page_size", 20)

	v.SetDefault("subtitles.base_url", "https://rest.opensubtitles.org")
	v.SetDefault("subtitles.user_agent", "TemporaryUserAgent")
	v.SetDefault("subtitles.language", "eng")
	v.SetDefault("subtitles.sort", "smart")
	v.SetDefault("subtitles.search_timeout", 10*time.Second)
	v.SetDefault("subtitles.download_timeout", 30*time.Second)

	defaults := DefaultFeeds()
	v.SetDefault("feeds.all", feedSetMap(defaults.All))
	v.SetDefault("feeds.movie", feedSetMap(defaults.Movie))
	v.SetDefault("feeds.tv", feedSetMap(defaults.TV))

	v.SetDefault("mylist.backend", "sqlite")
	v.SetDefault("mylist.key", "mylist")
	v.SetDefault("mylist.redis_addr", "localhost:6379")
	v.SetDefault("mylist.redis_password", "")
	v.SetDefault("mylist.redis_db", 0)

	v.SetDefault("database.path", filepath.Join(GetDataDir(), "marquee.db"))
	v.SetDefault("database.max_connections", 4)
	v.SetDefault("database.wal_mode", true)
	v.SetDefault("database.auto_vacuum", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.file", "")
	v.SetDefault("logging.max_size", 10)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)
	v.SetDefault("logging.color", true)

	v.SetDefault("server.address", "127.0.0.1:8787")
	v.SetDefault("advanced.debug", false)
	v.SetDefault("advanced.clipboard_command", "")
}

// DefaultFeeds returns the built-in home layouts
func DefaultFeeds() FeedsConfig {
	return FeedsConfig{
		All: FeedSet{
			Hero: Feed{Title: "Trending Today", Path: "/trending/all/day"},
			Priority: []Feed{
				{Title: "Trending This Week", Path: "/trending/all/week"},
				{Title: "Popular Movies", Path: "/movie/popular", Kind: "movie"},
				{Title: "Popular TV Shows", Path: "/tv/popular", Kind: "tv"},
			},
			Lazy: []Feed{
				{Title: "Top Rated Movies", Path: "/movie/top_rated", Kind: "movie"},
				{Title: "Top Rated TV Shows", Path: "/tv/top_rated", Kind: "tv"},
				{Title: "Now Playing", Path: "/movie/now_playing", Kind: "movie"},
			},
		},
		Movie: FeedSet{
			Hero: Feed{Title: "Trending Movies Today", Path: "/trending/movie/day", Kind: "movie"},
			Priority: []Feed{
				{Title: "Trending Movies", Path: "/trending/movie/week", Kind: "movie"},
				{Title: "Popular", Path: "/movie/popular", Kind: "movie"},
				{Title: "Now Playing", Path: "/movie/now_playing", Kind: "movie"},
			},
			Lazy: []Feed{
				{Title: "Top Rated", Path: "/movie/top_rated", Kind: "movie"},
				{Title: "Upcoming", Path: "/movie/upcoming", Kind: "movie"},
			},
		},
		TV: FeedSet{
			Hero: Feed{Title: "Trending TV Today", Path: "/trending/tv/day", Kind: "tv"},
			Priority: []Feed{
				{Title: "Trending TV Shows", Path: "/trending/tv/week", Kind: "tv"},
				{Title: "Popular", Path: "/tv/popular", Kind: "tv"},
				{Title: "On The Air", Path: "/tv/on_the_air", Kind: "tv"},
			},
			Lazy: []Feed{
				{Title: "Top Rated", Path: "/tv/top_rated", Kind: "tv"},
				{Title: "Airing Today", Path: "/tv/airing_today", Kind: "tv"},
			},
		},
	}
}

// feedSetMap converts a FeedSet into the generic shape viper stores defaults in
func feedSetMap(fs FeedSet) map[string]interface{} {
	convert := func(feeds []Feed) []map[string]interface{} {
		out := make([]map[string]interface{}, 0, len(feeds))
		for _, f := range feeds {
			out = append(out, map[string]interface{}{"title": f.Title, "path": f.Path, "kind": f.Kind})
		}
		return out
	}
	return map[string]interface{}{
		"hero":     map[string]interface{}{"title": fs.Hero.Title, "path": fs.Hero.Path, "kind": fs.Hero.Kind},
		"priority": convert(fs.Priority),
		"lazy":     convert(fs.Lazy),
	}
}

// Load reads configuration from cfgFile (or the default location) and the environment
func Load(cfgFile string) (*Config, *viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(GetConfigDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MARQUEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	return &cfg, v, nil
}

// Validate checks values that would otherwise fail deep inside a request
func (c *Config) Validate() error {
	switch c.Subtitles.Sort {
	case "smart", "popular", "recent":
	default:
		return fmt.Errorf("invalid subtitles.sort %q (want smart, popular or recent)", c.Subtitles.Sort)
	}
	switch c.MyList.Backend {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("invalid mylist.backend %q (want sqlite or redis)", c.MyList.Backend)
	}
	if c.TMDB.PageSize <= 0 {
		return fmt.Errorf("tmdb.page_size must be positive")
	}
	return nil
}

// SaveDefaultConfig writes the default configuration as YAML to path
func SaveDefaultConfig(path string) error {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to build default config: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal default config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// InitializeDirs creates the config, data and state directories
func InitializeDirs() error {
	for _, dir := range []string{GetConfigDir(), GetDataDir(), filepath.Join(getStateDir(), "marquee")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// GetConfigDir returns the directory holding config.yaml
func GetConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "marquee")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "marquee")
}

// GetDataDir returns the directory holding the database
func GetDataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "marquee")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "marquee")
}

func getStateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state")
}
