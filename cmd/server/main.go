package main

import (
	"flag"
	"log"
	"net/http"

	"questlog/internal/config"
	"questlog/internal/serverapp"
)

func main() {
	configPath := flag.String("config", "questlog.yml", "path to the yaml config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	config.FromEnv(cfg)

	app, err := serverapp.New(serverapp.Options{
		Config: cfg,
		Logger: log.Default(),
	})
	if err != nil {
		log.Fatalf("build server: %v", err)
	}
	defer app.Close()

	log.Printf("listening on http://localhost%s", cfg.Server.Addr)
	log.Fatal(http.ListenAndServe(cfg.Server.Addr, app.Handler()))
}
