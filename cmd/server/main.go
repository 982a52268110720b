// Package main is the entry point for the snowflake2midi API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/snowflake2midi/pkg/api"
	"github.com/james-see/snowflake2midi/pkg/config"
)

func main() {
	port := flag.Int("port", 8080, "Server port")
	configPath := flag.String("config", "", "Path to a JSON settings file")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err == nil {
		err = settings.Validate()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting snowflake2midi API server on port %d...\n", *port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", *port)

	if err := api.StartServer(*port, settings); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
