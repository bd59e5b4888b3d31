package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// App holds all runtime settings of the service. Every value has a default
// so the service starts without any environment at all (an empty database
// password is fine for local MySQL setups).
type App struct {
	// Network
	Port int `envconfig:"PORT" default:"8080"`
	// DB
	DBHost     string `envconfig:"DBHOST" default:"localhost:3306"`
	DBUser     string `envconfig:"DBUSER" default:"root"`
	DBPassword string `envconfig:"DBPWD" default:""`
	DBName     string `envconfig:"DBNAME" default:"contacts"`
	// Weather enrichment
	GeocodingURL   string        `envconfig:"GEOCODING_URL" default:"https://geocoding-api.open-meteo.com/v1"`
	WeatherURL     string        `envconfig:"WEATHER_URL" default:"https://api.open-meteo.com/v1"`
	WeatherTimeout time.Duration `envconfig:"WEATHER_TIMEOUT" default:"5s"`
}

func Load() (App, error) {
	var c App
	err := envconfig.Process("", &c)
	return c, err
}
