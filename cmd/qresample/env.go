package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// defaults holds flag defaults after the environment has been consulted.
type defaults struct {
	mode     string
	exec     string
	shots    int
	kernel   string
	padding  string
	seed     uint64
	logLevel string
}

// loadDefaults reads .env if present and applies QRESAMPLE_* overrides.
func loadDefaults() defaults {
	// Load .env file if it exists
	_ = godotenv.Load()

	return defaults{
		mode:     getEnv(envMode, defaultMode),
		exec:     getEnv(envExec, defaultExec),
		shots:    getEnvAsInt(envShots, defaultShots),
		kernel:   getEnv(envKernel, defaultKernel),
		padding:  getEnv(envPadding, defaultPadding),
		seed:     getEnvAsUint(envSeed, defaultSeed),
		logLevel: getEnv(envLogLevel, "warn"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsUint(key string, defaultValue uint64) uint64 {
	if value := os.Getenv(key); value != "" {
		if v, err := strconv.ParseUint(value, 10, 64); err == nil {
			return v
		}
	}
	return defaultValue
}
