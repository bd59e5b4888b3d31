package main

import (
	"fmt"
	"log"
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/ArtemKoshovyi/contacts-manager/internal/config"
	"github.com/ArtemKoshovyi/contacts-manager/internal/logging"
	"github.com/ArtemKoshovyi/contacts-manager/internal/service"
	"github.com/ArtemKoshovyi/contacts-manager/internal/weather"
)

// Usage example on the command line:
// > PORT=8080 DBUSER=contacts DBPWD=secret GIN_MODE=release GIN_LOGGING=OFF go run main.go
func main() {
	_ = godotenv.Load()
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	sqlDB := service.CreateDatabase(cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName)
	service.SetupDatabaseWrapper(sqlDB)
	service.SetupWeather(weather.NewClient(
		cfg.GeocodingURL, cfg.WeatherURL, cfg.WeatherTimeout, slog.Default()))

	router := service.SetupHttpRouter()
	if err := router.Run(fmt.Sprintf(":%d", cfg.Port)); err != nil {
		log.Fatal(err)
	}
}
