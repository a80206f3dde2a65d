package main

import (
	"flag"
	"os"

	"github.com/df07/go-hybrid-raytracer/pkg/core"
	"github.com/df07/go-hybrid-raytracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	scenesDir := flag.String("scenes", "scenes", "Directory of scene files the server may load")
	flag.Parse()

	logger := core.NewDefaultLogger()
	webServer := server.NewServer(*port, *scenesDir, logger)

	logger.Printf("Hybrid Raytracer Web Server\n")
	logger.Printf("API available at http://localhost:%d/api/scenes\n", *port)

	if err := webServer.Start(); err != nil {
		logger.Printf("Error starting server: %v\n", err)
		os.Exit(1)
	}
}
