// Package config loads library settings from the environment and builds the
// logger shared by every exported call.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ironsheep/imagehash-capi/internal/imghash"
)

// Prefix is prepended to every environment variable the library reads.
const Prefix = "IMAGEHASH_"

// Config holds the settings read once when the library is loaded.
type Config struct {
	// LogLevel is a zap level name. The default keeps the library quiet
	// unless something goes wrong.
	LogLevel string `env:"LOG_LEVEL" envDefault:"error"`

	// MaxHashSize caps the hash_size argument of create_hash.
	MaxHashSize int `env:"MAX_HASH_SIZE" envDefault:"256"`

	// MaxPixels caps width*height for create_hash_image.
	MaxPixels int64 `env:"MAX_PIXELS" envDefault:"268435456"`
}

// Default returns the configuration used when the environment is empty.
func Default() Config {
	return Config{
		LogLevel:    "error",
		MaxHashSize: 256,
		MaxPixels:   1 << 28,
	}
}

// Load parses the environment into a Config and validates it.
//
// Returns:
//   - Config: The parsed settings. Any variable that is malformed or out of
//     range is replaced by its default; valid variables are kept.
//   - error: Non-nil if any variable was malformed or out of range. The
//     returned Config is still usable.
func Load() (Config, error) {
	return load(env.Options{Prefix: Prefix})
}

// LoadFrom is Load over an explicit variable map instead of the process
// environment.
func LoadFrom(vars map[string]string) (Config, error) {
	return load(env.Options{Prefix: Prefix, Environment: vars})
}

func load(opts env.Options) (Config, error) {
	// A field that fails to parse keeps the value it starts with.
	cfg := Default()
	var errs error
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		errs = fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg, err := cfg.sanitize()
	return cfg, multierr.Append(errs, err)
}

// Validate checks that every setting is in range. The error names each
// setting that is not.
func (c Config) Validate() error {
	_, err := c.sanitize()
	return err
}

// sanitize resets every out-of-range setting to its default.
func (c Config) sanitize() (Config, error) {
	def := Default()
	var errs error
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("invalid %sLOG_LEVEL %q: %w", Prefix, c.LogLevel, err))
		c.LogLevel = def.LogLevel
	}
	if c.MaxHashSize < 1 || c.MaxHashSize > imghash.MaxSize {
		errs = multierr.Append(errs, fmt.Errorf("invalid %sMAX_HASH_SIZE %d: must be in [1, %d]",
			Prefix, c.MaxHashSize, imghash.MaxSize))
		c.MaxHashSize = def.MaxHashSize
	}
	if c.MaxPixels < 0 {
		errs = multierr.Append(errs, fmt.Errorf("invalid %sMAX_PIXELS %d: must not be negative", Prefix, c.MaxPixels))
		c.MaxPixels = def.MaxPixels
	}
	return c, errs
}

// NewLogger builds a JSON logger on stderr at the configured level.
//
// Stdout belongs to the host application, so nothing is ever written there.
// An unparsable level falls back to error.
func NewLogger(c Config) *zap.Logger {
	return newLogger(c, nil, stderrCore)
}

// Setup is NewLogger for the result of Load. When loadErr is non-nil it is
// logged once at warn, even if the configured level would drop warnings.
func Setup(c Config, loadErr error) *zap.Logger {
	return newLogger(c, loadErr, stderrCore)
}

func newLogger(c Config, loadErr error, newCore func(zapcore.LevelEnabler) zapcore.Core) *zap.Logger {
	configured, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		configured = zapcore.ErrorLevel
	}
	level := zap.NewAtomicLevelAt(configured)
	logger := zap.New(newCore(level), zap.AddCaller()).Named("imagehash")

	if loadErr != nil {
		if configured > zapcore.WarnLevel {
			level.SetLevel(zapcore.WarnLevel)
		}
		logger.Warn("invalid configuration replaced by defaults", zap.Error(loadErr))
		level.SetLevel(configured)
	}
	return logger
}

func stderrCore(level zapcore.LevelEnabler) zapcore.Core {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		level,
	)
}
