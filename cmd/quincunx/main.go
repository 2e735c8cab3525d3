// Command quincunx runs a Galton box experiment and prints the resulting
// slot distribution.
package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/tebeka/atexit"
)

func main() {
	// A .env file may supply defaults for the monitoring and recording
	// flags; missing files are fine.
	_ = godotenv.Load()
	applyEnvDefaults()

	if err := rootCmd.Execute(); err != nil {
		atexit.Exit(1)
	}

	// Exit through atexit so the result recorder gets flushed.
	atexit.Exit(0)
}

func applyEnvDefaults() {
	if v := os.Getenv("QUINCUNX_MONITOR_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			monitorPort = port
			monitorFlag = true
		}
	}

	if v := os.Getenv("QUINCUNX_OUTPUT"); v != "" {
		outputFile = v
	}
}
