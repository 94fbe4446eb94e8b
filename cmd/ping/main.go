// Command ping probes the local server's /healthz endpoint.
//
// Intended for Docker HEALTHCHECK:
//
//	HEALTHCHECK CMD ["/ping"]
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"inkline/internal/remote"
)

const (
	defaultPort          = 8080
	expectedHealthStatus = "ok"
	requestTimeout       = 1 * time.Second

	// exit codes
	codeRequestFailed     = 2
	codeBadHTTPStatus     = 3
	codeReportedUnhealthy = 5
)

func main() {
	port := detectPort()
	client := remote.New(fmt.Sprintf("http://localhost:%d", port), nil, remote.WithTimeout(requestTimeout))

	h, err := client.Health(context.Background())
	os.Exit(report(port, h, err))
}

// report logs the outcome of a probe and returns the exit code.
func report(port int, h *remote.Health, err error) int {
	var apiErr *remote.APIError
	switch {
	case errors.As(err, &apiErr):
		log.Printf("unexpected HTTP status %d", apiErr.Status)
		return codeBadHTTPStatus
	case err != nil:
		log.Printf("request failed: %v", err)
		return codeRequestFailed
	case h.Status != "" && h.Status != expectedHealthStatus:
		log.Printf("service reported unhealthy: %q", h.Status)
		return codeReportedUnhealthy
	}
	log.Printf("service healthy on port %d", port)
	return 0
}

// detectPort parses APP_PORT and falls back to defaultPort.
func detectPort() int {
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p <= 65535 {
			return p
		}
	}
	return defaultPort
}
