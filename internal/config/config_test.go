package config

import (
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// observe returns a core constructor for newLogger that records entries.
func observe() (func(zapcore.LevelEnabler) zapcore.Core, func() *observer.ObservedLogs) {
	var logs *observer.ObservedLogs
	newCore := func(level zapcore.LevelEnabler) zapcore.Core {
		core, obs := observer.New(level)
		logs = obs
		return core
	}
	return newCore, func() *observer.ObservedLogs { return logs }
}

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{})
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg != Default() {
		t.Errorf("got %+v, want %+v", cfg, Default())
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"IMAGEHASH_LOG_LEVEL":     "debug",
		"IMAGEHASH_MAX_HASH_SIZE": "64",
		"IMAGEHASH_MAX_PIXELS":    "1000",
	})
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
	if cfg.MaxHashSize != 64 {
		t.Errorf("MaxHashSize: got %d, want 64", cfg.MaxHashSize)
	}
	if cfg.MaxPixels != 1000 {
		t.Errorf("MaxPixels: got %d, want 1000", cfg.MaxPixels)
	}
}

func TestLoadFrom_IgnoresUnprefixed(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{"LOG_LEVEL": "debug"})
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.LogLevel != "error" {
		t.Errorf("LogLevel: got %q, want error", cfg.LogLevel)
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
	}{
		{"bad level", map[string]string{"IMAGEHASH_LOG_LEVEL": "loud"}},
		{"size not a number", map[string]string{"IMAGEHASH_MAX_HASH_SIZE": "big"}},
		{"size zero", map[string]string{"IMAGEHASH_MAX_HASH_SIZE": "0"}},
		{"size too large", map[string]string{"IMAGEHASH_MAX_HASH_SIZE": "100000"}},
		{"negative pixels", map[string]string{"IMAGEHASH_MAX_PIXELS": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFrom(tt.vars)
			if err == nil {
				t.Fatal("LoadFrom should fail")
			}
			if cfg != Default() {
				t.Errorf("fallback: got %+v, want defaults", cfg)
			}
		})
	}
}

func TestLoadFrom_KeepsValidSettings(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"IMAGEHASH_LOG_LEVEL":     "debug",
		"IMAGEHASH_MAX_HASH_SIZE": "1024",
		"IMAGEHASH_MAX_PIXELS":    "1000",
	})
	if err == nil {
		t.Fatal("LoadFrom should fail")
	}
	if !strings.Contains(err.Error(), "MAX_HASH_SIZE") {
		t.Errorf("error should name the bad variable: %v", err)
	}

	want := Config{LogLevel: "debug", MaxHashSize: Default().MaxHashSize, MaxPixels: 1000}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadFrom_ReportsEveryBadSetting(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"IMAGEHASH_LOG_LEVEL":  "loud",
		"IMAGEHASH_MAX_PIXELS": "-1",
	})
	if err == nil {
		t.Fatal("LoadFrom should fail")
	}
	for _, name := range []string{"LOG_LEVEL", "MAX_PIXELS"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error should name %s: %v", name, err)
		}
	}
	if cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
}

func TestSetup_WarnsOnInvalidConfig(t *testing.T) {
	tests := []struct {
		name      string
		vars      map[string]string
		wantLevel zapcore.Level
	}{
		{"debug kept", map[string]string{
			"IMAGEHASH_LOG_LEVEL":     "debug",
			"IMAGEHASH_MAX_HASH_SIZE": "1024",
		}, zapcore.DebugLevel},
		{"default error level", map[string]string{
			"IMAGEHASH_MAX_HASH_SIZE": "1024",
		}, zapcore.ErrorLevel},
		{"bad level", map[string]string{
			"IMAGEHASH_LOG_LEVEL": "loud",
		}, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, loadErr := LoadFrom(tt.vars)
			if loadErr == nil {
				t.Fatal("LoadFrom should fail")
			}

			newCore, logs := observe()
			logger := newLogger(cfg, loadErr, newCore)

			warnings := logs().FilterLevelExact(zapcore.WarnLevel).All()
			if len(warnings) != 1 {
				t.Fatalf("got %d warnings, want 1", len(warnings))
			}
			if _, ok := warnings[0].ContextMap()["error"]; !ok {
				t.Error("warning should carry the load error")
			}

			if !logger.Core().Enabled(tt.wantLevel) {
				t.Errorf("level %v not enabled", tt.wantLevel)
			}
			if tt.wantLevel > zapcore.DebugLevel && logger.Core().Enabled(tt.wantLevel-1) {
				t.Errorf("level %v should be disabled after the warning", tt.wantLevel-1)
			}
		})
	}
}

func TestSetup_QuietOnValidConfig(t *testing.T) {
	cfg, loadErr := LoadFrom(map[string]string{})
	if loadErr != nil {
		t.Fatalf("LoadFrom failed: %v", loadErr)
	}

	newCore, logs := observe()
	newLogger(cfg, loadErr, newCore)
	if n := logs().Len(); n != 0 {
		t.Errorf("got %d entries, want none", n)
	}
}

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"nonsense", zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(Config{LogLevel: tt.level})
			if !logger.Core().Enabled(tt.want) {
				t.Errorf("level %v not enabled", tt.want)
			}
			if tt.want > zapcore.DebugLevel && logger.Core().Enabled(tt.want-1) {
				t.Errorf("level %v should be disabled", tt.want-1)
			}
		})
	}
}
