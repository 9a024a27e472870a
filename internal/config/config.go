package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Session SessionConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type StorageConfig struct {
	// Path of the JSON snapshot file holding the full system state.
	Path string
}

type SessionConfig struct {
	TTL time.Duration
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080"
	}

	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host: serverHost,
		Port: serverPort,
	}

	dataFile := os.Getenv("DATA_FILE")
	if dataFile == "" {
		dataFile = "system_data.json"
	}

	storageCfg := StorageConfig{
		Path: dataFile,
	}

	sessionTTLStr := os.Getenv("SESSION_TTL_SECONDS")
	if sessionTTLStr == "" {
		sessionTTLStr = "86400"
	}

	sessionTTLSec, err := strconv.Atoi(sessionTTLStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SESSION_TTL_SECONDS: %w", op, err)
	}
	if sessionTTLSec <= 0 {
		return nil, fmt.Errorf("%s: SESSION_TTL_SECONDS must be positive", op)
	}

	sessionCfg := SessionConfig{
		TTL: time.Duration(sessionTTLSec) * time.Second,
	}

	return &Config{
		Server:  serverCfg,
		Storage: storageCfg,
		Session: sessionCfg,
	}, nil
}
