package main

import (
	"flag"
	"fmt"
	"net/http"

	"github.com/athapong/go-calais/pkg/calais"
	"github.com/athapong/go-calais/prompts"
	"github.com/athapong/go-calais/services"
	"github.com/athapong/go-calais/tools"
	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	envFile := flag.String("env", ".env", "Path to environment file")
	metricsAddr := flag.String("metrics-addr", "", "Address to serve Prometheus metrics on (disabled when empty)")
	flag.Parse()

	envErr := godotenv.Load(*envFile)
	logger := services.DefaultLogger()
	if envErr != nil {
		logger.Warnf("Error loading env file %s: %v", *envFile, envErr)
	}

	mcpServer := server.NewMCPServer(
		"go-calais",
		calais.Version,
		server.WithLogging(),
		server.WithPromptCapabilities(true),
	)

	tools.RegisterToolManagerTool(mcpServer)

	if tools.IsEnabled("calais") {
		tools.RegisterCalaisTools(mcpServer)
		prompts.RegisterEntityBriefPrompt(mcpServer)
	}

	if tools.IsEnabled("fetch") {
		tools.RegisterFetchTool(mcpServer)
	}

	if *metricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			logger.Infof("Serving metrics on %s/metrics", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				logger.Errorf("Metrics server stopped: %v", err)
			}
		}()
	}

	if err := server.ServeStdio(mcpServer); err != nil {
		panic(fmt.Sprintf("Server error: %v", err))
	}
}
