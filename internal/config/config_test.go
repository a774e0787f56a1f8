package config

import (
	"strings"
	"testing"

	"github.com/dshills/quantasplit/internal/testutil"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"debug level", func(c *Config) { c.LogLevel = "debug" }, ""},
		{"bad level", func(c *Config) { c.LogLevel = "trace" }, "invalid log level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format"},
		{"tree output", func(c *Config) { c.Explain.Format = "tree" }, ""},
		{"bad output", func(c *Config) { c.Explain.Format = "dot" }, "invalid explain format"},
		{"negative passes", func(c *Config) { c.Splitter.MaxPasses = -1 }, `parameter "max_passes": "-1"`},
		{"negative subplans", func(c *Config) { c.Splitter.MaxSubplans = -1 }, `parameter "max_subplans": "-1"`},
		{"negative group", func(c *Config) { c.Splitter.RootGroupID = -3 }, `parameter "root_group_id": "-3"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	path := testutil.WriteFile(t, dir, "config.json", `{
		"log_level": "debug",
		"splitter": {"max_subplans": 64, "verify_invariants": true},
		"explain": {"format": "tree"}
	}`)

	cfg, err := LoadFromFile(path)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, "debug", cfg.LogLevel)
	testutil.AssertEqual(t, "text", cfg.LogFormat)
	testutil.AssertEqual(t, 64, cfg.Splitter.MaxSubplans)
	testutil.AssertEqual(t, int32(1), cfg.Splitter.RootGroupID)
	testutil.AssertTrue(t, cfg.Splitter.VerifyInvariants, "verify_invariants should be set")
	testutil.AssertEqual(t, "tree", cfg.Explain.Format)
	testutil.AssertTrue(t, cfg.Explain.Color, "color keeps its default")
}

func TestLoadFromFileErrors(t *testing.T) {
	dir, cleanup := testutil.TempDir(t)
	defer cleanup()

	_, err := LoadFromFile(dir + "/missing.json")
	testutil.AssertError(t, err)
	testutil.AssertContains(t, err.Error(), "failed to read config file")

	bad := testutil.WriteFile(t, dir, "bad.json", `{"log_level": `)
	_, err = LoadFromFile(bad)
	testutil.AssertError(t, err)
	testutil.AssertContains(t, err.Error(), "failed to parse config file")

	invalid := testutil.WriteFile(t, dir, "invalid.json", `{"splitter": {"max_passes": -2}}`)
	_, err = LoadFromFile(invalid)
	testutil.AssertError(t, err)
	testutil.AssertContains(t, err.Error(), "invalid configuration")
}

func TestLoadFromFlags(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LoadFromFlags("", "")
	testutil.AssertEqual(t, "warn", cfg.LogLevel)
	testutil.AssertEqual(t, "table", cfg.Explain.Format)

	cfg.LoadFromFlags("info", "json")
	testutil.AssertEqual(t, "info", cfg.LogLevel)
	testutil.AssertEqual(t, "json", cfg.Explain.Format)

	logCfg := cfg.ToLogConfig()
	testutil.AssertEqual(t, "info", logCfg.Level)
	testutil.AssertEqual(t, "text", logCfg.Format)
}

func TestLoadSplitterConfigFromEnv(t *testing.T) {
	t.Setenv("QUANTASPLIT_ROOT_GROUP_ID", "7")
	t.Setenv("QUANTASPLIT_MAX_PASSES", "50")
	t.Setenv("QUANTASPLIT_MAX_SUBPLANS", "not-a-number")
	t.Setenv("QUANTASPLIT_VERIFY_INVARIANTS", "true")

	cfg := LoadSplitterConfigFromEnv()
	testutil.AssertEqual(t, int32(7), cfg.RootGroupID)
	testutil.AssertEqual(t, 50, cfg.MaxPasses)
	testutil.AssertEqual(t, 4096, cfg.MaxSubplans)
	testutil.AssertTrue(t, cfg.VerifyInvariants, "verify should be enabled")
}
