package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"

	"github.com/churchops/attendance-system/internal/core/domain"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Mongo      MongoConfig
	Redis      RedisConfig
	Venue      VenueConfig
	Attendance AttendanceConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=attendance_system"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// VenueConfig locates the venue and its check-in geofence.
type VenueConfig struct {
	Latitude     float64 `env:"VENUE_LAT,           default=37.5665"`
	Longitude    float64 `env:"VENUE_LNG,           default=126.9780"`
	RadiusMeters float64 `env:"VENUE_RADIUS_METERS, default=100"`
}

// Coordinates returns the venue centre as a coordinate pair.
func (v VenueConfig) Coordinates() domain.Coordinates {
	return domain.Coordinates{Lat: v.Latitude, Lng: v.Longitude}
}

// AttendanceConfig holds the timing constants of the attendance engine.
// SweepInterval doubles as the sweeper's eligibility window width, so the
// two cannot drift apart.
type AttendanceConfig struct {
	ActivationMinutesBefore int           `env:"ACTIVATION_MINUTES_BEFORE, default=30"`
	LateGraceMinutes        int           `env:"LATE_GRACE_MINUTES,        default=10"`
	SweepInterval           time.Duration `env:"SWEEP_INTERVAL,            default=60s"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
