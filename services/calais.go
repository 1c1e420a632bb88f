package services

import (
	"os"
	"sync"

	"github.com/athapong/go-calais/pkg/calais"
	"github.com/sirupsen/logrus"
)

var DefaultLogger = sync.OnceValue(func() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	// stdout carries the MCP stdio protocol
	logger.SetOutput(os.Stderr)
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(level)
	}
	return logger
})

var DefaultCalaisClient = sync.OnceValue(func() *calais.Client {
	apiKey := os.Getenv("CALAIS_API_KEY")
	if apiKey == "" {
		panic("CALAIS_API_KEY is not set, please set it in MCP Config")
	}

	opts := []calais.Option{
		calais.WithHTTPClient(DefaultHttpClient()),
		calais.WithLogger(DefaultLogger()),
	}
	if endpoint := os.Getenv("CALAIS_ENDPOINT"); endpoint != "" {
		opts = append(opts, calais.WithEndpoint(endpoint))
	}

	return calais.NewClient(apiKey, opts...)
})
