package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/itobot/scout/internal/config"
)

var configEnvVars = []string{
	"SCOUT_CONFIG",
	"SCOUT_ADDR",
	"SCOUT_LOG_LEVEL",
	"SCOUT_STORAGE_TYPE",
	"SCOUT_REDIS_URL",
	"SCOUT_SQLITE_PATH",
	"SCOUT_POSTGRES_URL",
	"SCOUT_JWT_SECRET",
	"SCOUT_SESSION_DURATION",
	"SCOUT_ADMIN_EMAILS",
	"SCOUT_TBA_AUTH_KEY",
	"SCOUT_TBA_CACHE_TTL",
}

func clearConfigEnvVars() {
	for _, name := range configEnvVars {
		_ = os.Unsetenv(name)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "scout.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load()

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.StorageType, convey.ShouldEqual, config.StorageMemory)
				convey.So(cfg.SessionDuration, convey.ShouldEqual, 24*time.Hour)
				convey.So(cfg.TBACacheTTL, convey.ShouldEqual, 30*time.Minute)
				convey.So(cfg.AdminEmails, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("SCOUT_ADDR", ":9090")
			_ = os.Setenv("SCOUT_STORAGE_TYPE", "sqlite")
			_ = os.Setenv("SCOUT_SQLITE_PATH", "/tmp/scouting.db")
			_ = os.Setenv("SCOUT_SESSION_DURATION", "2h")
			_ = os.Setenv("SCOUT_ADMIN_EMAILS", "lead@example.com,mentor@example.com")

			cfg, err := config.Load()

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.StorageType, convey.ShouldEqual, config.StorageSQLite)
				convey.So(cfg.SQLitePath, convey.ShouldEqual, "/tmp/scouting.db")
				convey.So(cfg.SessionDuration, convey.ShouldEqual, 2*time.Hour)
				convey.So(cfg.AdminEmails, convey.ShouldResemble, []string{"lead@example.com", "mentor@example.com"})
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := writeConfigFile(t, `
addr: ":7070"
storage_type: redis
redis_url: "redis://cache:6379/2"
tba_cache_ttl: 10m
admin_emails:
  - lead@example.com
`)
			_ = os.Setenv("SCOUT_CONFIG", path)

			cfg, err := config.Load()

			convey.Convey("Then it should load from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.StorageType, convey.ShouldEqual, config.StorageRedis)
				convey.So(cfg.RedisURL, convey.ShouldEqual, "redis://cache:6379/2")
				convey.So(cfg.TBACacheTTL, convey.ShouldEqual, 10*time.Minute)
				convey.So(cfg.AdminEmails, convey.ShouldResemble, []string{"lead@example.com"})
			})

			convey.Convey("And environment variables take precedence", func() {
				_ = os.Setenv("SCOUT_ADDR", ":6060")

				cfg, err := config.Load()

				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
				convey.So(cfg.StorageType, convey.ShouldEqual, config.StorageRedis)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("SCOUT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

			_, err := config.Load()

			convey.Convey("Then it should report a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the storage type is unknown", func() {
			_ = os.Setenv("SCOUT_STORAGE_TYPE", "mongodb")

			_, err := config.Load()

			convey.Convey("Then it should be rejected as invalid", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When postgres is selected without a URL", func() {
			_ = os.Setenv("SCOUT_STORAGE_TYPE", "postgres")

			_, err := config.Load()

			convey.Convey("Then it should be rejected as invalid", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the log level is not recognised", func() {
			_ = os.Setenv("SCOUT_LOG_LEVEL", "chatty")

			_, err := config.Load()

			convey.Convey("Then it should be rejected as invalid", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})
	})
}

func TestDotEnvFile(t *testing.T) {
	convey.Convey("Given a .env file in the working directory", t, func() {
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		dir := t.TempDir()
		err := os.WriteFile(filepath.Join(dir, ".env"), []byte("SCOUT_JWT_SECRET=from-dotenv\nSCOUT_ADDR=:5050\n"), 0o600)
		convey.So(err, convey.ShouldBeNil)
		t.Chdir(dir)

		convey.Convey("When a variable is only set in the file", func() {
			cfg, err := config.Load()

			convey.Convey("Then the file value is used", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.JWTSecret, convey.ShouldEqual, "from-dotenv")
			})
		})

		convey.Convey("When the variable is also set in the environment", func() {
			_ = os.Setenv("SCOUT_ADDR", ":4040")

			cfg, err := config.Load()

			convey.Convey("Then the environment wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":4040")
			})
		})
	})
}

func TestSlogLevel(t *testing.T) {
	convey.Convey("Given a config with log level warn", t, func() {
		cfg := config.New()
		cfg.LogLevel = "warn"

		level, err := cfg.SlogLevel()

		convey.So(err, convey.ShouldBeNil)
		convey.So(level.String(), convey.ShouldEqual, "WARN")
	})
}
