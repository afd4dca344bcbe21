package health

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
)

// Status is the health endpoint response.
type Status struct {
	Service    string    `json:"service"`
	Version    string    `json:"version"`
	GoVersion  string    `json:"go_version"`
	Hostname   string    `json:"hostname"`
	ServerTime time.Time `json:"server_time"`
}

// NewHandler creates the /health endpoint handler.
func NewHandler(serviceName, version string) echo.HandlerFunc {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}

	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, Status{
			Service:    serviceName,
			Version:    version,
			GoVersion:  runtime.Version(),
			Hostname:   hostname,
			ServerTime: time.Now(),
		})
	}
}
