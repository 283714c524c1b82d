package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/leaguelens/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Source, convey.ShouldEqual, "xeet")
				convey.So(cfg.LookbackDays, convey.ShouldEqual, 7)
				convey.So(cfg.TopLimit, convey.ShouldEqual, 100)
				convey.So(cfg.TopCutoff, convey.ShouldEqual, 50)
				convey.So(cfg.GoodRankThreshold, convey.ShouldEqual, 300)
				convey.So(cfg.RequestTimeout, convey.ShouldEqual, 10*time.Second)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("LEAGUELENS_ADDR", ":8080")
			_ = os.Setenv("LEAGUELENS_SOURCE", "wallchain")
			_ = os.Setenv("LEAGUELENS_LOOKBACK_DAYS", "3")
			_ = os.Setenv("LEAGUELENS_TOP_LIMIT", "250")
			_ = os.Setenv("LEAGUELENS_FETCH_WORKERS", "8")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Source, convey.ShouldEqual, "wallchain")
				convey.So(cfg.LookbackDays, convey.ShouldEqual, 3)
				convey.So(cfg.TopLimit, convey.ShouldEqual, 250)
				convey.So(cfg.FetchWorkers, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			clearConfigEnvVars()
			dir := t.TempDir()
			path := filepath.Join(dir, "config.yaml")
			yamlBody := "addr: \":7070\"\nsource: wallchain\ntop_limit: 500\n"
			err := os.WriteFile(path, []byte(yamlBody), 0o600)
			convey.So(err, convey.ShouldBeNil)
			_ = os.Setenv("LEAGUELENS_CONFIG", path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values should override defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.Source, convey.ShouldEqual, "wallchain")
				convey.So(cfg.TopLimit, convey.ShouldEqual, 500)
				convey.So(cfg.TopCutoff, convey.ShouldEqual, 50)
			})
		})

		convey.Convey("When the configured source is the global precomputed one", func() {
			clearConfigEnvVars()
			_ = os.Setenv("LEAGUELENS_SOURCE", "global")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading should succeed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Source, convey.ShouldEqual, "global")
			})
		})

		convey.Convey("When the configured source is unknown", func() {
			clearConfigEnvVars()
			_ = os.Setenv("LEAGUELENS_SOURCE", "mystery")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading should fail with an invalid config error", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "invalid config")
			})
		})

		convey.Convey("When lookback_days is not positive", func() {
			clearConfigEnvVars()
			_ = os.Setenv("LEAGUELENS_LOOKBACK_DAYS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then loading should fail", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, key := range []string{
		"LEAGUELENS_CONFIG",
		"LEAGUELENS_ADDR",
		"LEAGUELENS_SOURCE",
		"LEAGUELENS_LOOKBACK_DAYS",
		"LEAGUELENS_TOP_LIMIT",
		"LEAGUELENS_TOP_CUTOFF",
		"LEAGUELENS_FETCH_WORKERS",
	} {
		_ = os.Unsetenv(key)
	}
}
