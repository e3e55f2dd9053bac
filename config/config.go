package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// CheckInWindow is a clock range (HH:MM, inclusive) during which students may log attendance.
type CheckInWindow struct {
	Start string `mapstructure:"start"`
	End   string `mapstructure:"end"`
}

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"database"`
	Redis struct {
		Enabled  bool   `mapstructure:"enabled"`
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
		DB       int    `mapstructure:"db"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey  string        `mapstructure:"secret_key"`
		TTL        time.Duration `mapstructure:"ttl"`
		RefreshTTL time.Duration `mapstructure:"refresh_ttl"`
	} `mapstructure:"jwt"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Migrations struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"migrations"`
	School struct {
		Timezone string `mapstructure:"timezone"`
	} `mapstructure:"school"`
	Ingang struct {
		MaxPerClass int   `mapstructure:"max_per_class"`
		TicketCount int   `mapstructure:"ticket_count"`
		TimeSlots   []int `mapstructure:"time_slots"`
	} `mapstructure:"ingang"`
	Attendance struct {
		Windows []CheckInWindow `mapstructure:"windows"`
	} `mapstructure:"attendance"`
	Meals struct {
		CacheTTL time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"meals"`
}

var AppConfig Config

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("redis.enabled", true)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("jwt.ttl", "12h")
	viper.SetDefault("jwt.refresh_ttl", "720h")
	viper.SetDefault("log.level", "info")
	viper.SetDefault("migrations.path", "file://db/migrations")
	viper.SetDefault("school.timezone", "Asia/Seoul")
	viper.SetDefault("ingang.max_per_class", 9)
	viper.SetDefault("ingang.ticket_count", 3)
	viper.SetDefault("ingang.time_slots", []int{1, 2})
	viper.SetDefault("meals.cache_ttl", "10m")
}

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	setDefaults()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Fatalf("Error reading config file, %s", err)
		}
		log.Printf("No config file found in %s, using defaults and environment", path)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}

// Location returns the school's time zone, falling back to UTC when it cannot be loaded.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.School.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
