package main

import (
	"flag"
	"log"
	"os"

	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/web/server"
)

func main() {
	port := flag.Int("port", 8080, "Port to serve on")
	staticDir := flag.String("static", "static/", "Directory of the browser front-end")
	history := flag.Int("history", server.DefaultConsoleHistory, "Log lines kept for /api/console")
	flag.Parse()

	webServer := server.NewServerWithOptions(*port, server.Options{
		StaticDir:      *staticDir,
		ConsoleHistory: *history,
	})

	log.Printf("Whitted Raytracer Web Server")
	if files, err := scene.ListFileScenes(""); err != nil {
		log.Printf("Scene files unavailable: %v", err)
	} else {
		log.Printf("%d built-in scenes, %d scene files", len(scene.ListBuiltinScenes()), len(files))
	}
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
