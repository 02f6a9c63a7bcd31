package config

import (
	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type Config struct {
	DBDriver string
	DBDSN    string

	HTTPPort string

	RedisAddr    string
	KafkaBrokers string

	PruneSchedule string
	AuditSchedule string
}

// LoadConfig reads configuration from the environment (a .env file is
// autoloaded when present). Defaults give a self-contained sqlite setup.
func LoadConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_DSN", ".tmp/transmem.db")
	v.SetDefault("HTTP_PORT", "4030")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("PRUNE_SCHEDULE", "@every 10m")
	v.SetDefault("AUDIT_SCHEDULE", "@every 1h")

	return &Config{
		DBDriver:      v.GetString("DB_DRIVER"),
		DBDSN:         v.GetString("DB_DSN"),
		HTTPPort:      v.GetString("HTTP_PORT"),
		RedisAddr:     v.GetString("REDIS_ADDR"),
		KafkaBrokers:  v.GetString("KAFKA_BROKERS"),
		PruneSchedule: v.GetString("PRUNE_SCHEDULE"),
		AuditSchedule: v.GetString("AUDIT_SCHEDULE"),
	}
}

// GetDb opens the configured database.
func GetDb(cnf *Config) *gorm.DB {
	var dialector gorm.Dialector
	switch cnf.DBDriver {
	case "postgres":
		dialector = postgres.Open(cnf.DBDSN)
	default:
		dialector = sqlite.Open(cnf.DBDSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		logrus.Fatalf("error opening database: %v", err)
	}

	return db
}
