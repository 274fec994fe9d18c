package main

import (
	"log"
	"net/http"

	"drillchat/internal/api"
	"drillchat/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	cfg := config.Load()
	srv, err := api.NewServer(cfg)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("drillchat api listening on %s provider=%q model=%q reference=%q",
		cfg.APIAddr, cfg.Provider, cfg.Model, cfg.ReferencePDF)
	if err := http.ListenAndServe(cfg.APIAddr, srv.Routes()); err != nil {
		log.Fatal(err)
	}
}
