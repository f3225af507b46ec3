// Package config provides functionality for managing configuration options
// for the client using command-line flags, environment variables and an
// optional JSON config file.
package config

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Options holds the configuration values for the client.
type Options struct {
	// BaseURL is the portfolio backend base URL.
	BaseURL string `json:"base_url" env:"PORTFOLIO_API_URL" env-default:"http://localhost:8080"`

	// UploadURL is the media CDN direct-upload endpoint.
	UploadURL string `json:"upload_url" env:"PORTFOLIO_UPLOAD_URL" env-default:"https://upload.imagekit.io/api/v1/files/upload"`

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration `json:"timeout" env:"PORTFOLIO_TIMEOUT" env-default:"15s"`

	// TokenFile is the fallback path for the bearer token when the OS
	// keyring is unavailable.
	TokenFile string `json:"token_file" env:"PORTFOLIO_TOKEN_FILE"`

	// LogLevel controls structured-log verbosity.
	LogLevel string `json:"log_level" env:"PORTFOLIO_LOG_LEVEL" env-default:"Info"`

	// Config is the path to the config file.
	Config string `json:"-" env:"CONFIG"`
}

// options holds the current configuration values.
var options = &Options{}

// init initializes command-line flags and sets default values.
func init() {
	flag.StringVar(&options.BaseURL, "a", "http://localhost:8080", "backend base URL")
	flag.StringVar(&options.UploadURL, "u", "", "media CDN upload endpoint")
	flag.StringVar(&options.TokenFile, "t", "", "path to the token fallback file")
	flag.StringVar(&options.Config, "config", "config.json", "path to config file")
	flag.StringVar(&options.Config, "c", "config.json", "path to config file (shorthand)")
}

// Parse resolves configuration in ascending precedence: config file,
// environment variables, explicitly set command-line flags. It returns a
// pointer to the Options struct containing the resolved values.
func Parse() *Options {
	flag.Parse()

	explicit := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	return resolve(options, explicit)
}

// resolve layers file, env and flag values onto opts. explicit names the
// flags the user actually passed; only those override env and file values.
func resolve(opts *Options, explicit map[string]bool) *Options {
	// Flag values (explicit ones win at the end) were written into opts by
	// flag.Parse; keep a copy before the file and env layers overwrite them.
	fromFlags := *opts

	if configPath := os.Getenv("CONFIG"); configPath != "" {
		opts.Config = configPath
	}

	if opts.Config != "" {
		if _, err := os.Stat(opts.Config); err == nil {
			data, err := os.ReadFile(opts.Config)
			if err != nil {
				log.Fatalf("error while reading config file: %v", err)
			}
			if err := json.Unmarshal(data, opts); err != nil {
				log.Fatalf("error while parsing config file: %v", err)
			}
		}
	}

	fromEnv := Options{}
	if err := cleanenv.ReadEnv(&fromEnv); err == nil {
		if v := os.Getenv("PORTFOLIO_API_URL"); v != "" {
			opts.BaseURL = fromEnv.BaseURL
		}
		if v := os.Getenv("PORTFOLIO_UPLOAD_URL"); v != "" {
			opts.UploadURL = fromEnv.UploadURL
		}
		if v := os.Getenv("PORTFOLIO_TIMEOUT"); v != "" {
			opts.Timeout = fromEnv.Timeout
		}
		if v := os.Getenv("PORTFOLIO_TOKEN_FILE"); v != "" {
			opts.TokenFile = fromEnv.TokenFile
		}
		if v := os.Getenv("PORTFOLIO_LOG_LEVEL"); v != "" {
			opts.LogLevel = fromEnv.LogLevel
		}
	}

	// Explicitly set flags beat both the file and the environment.
	if explicit["a"] {
		opts.BaseURL = fromFlags.BaseURL
	}
	if explicit["u"] {
		opts.UploadURL = fromFlags.UploadURL
	}
	if explicit["t"] {
		opts.TokenFile = fromFlags.TokenFile
	}

	if opts.UploadURL == "" {
		opts.UploadURL = "https://upload.imagekit.io/api/v1/files/upload"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.LogLevel == "" {
		opts.LogLevel = "Info"
	}

	return opts
}
