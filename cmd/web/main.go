package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/peterkuimelis/tcgsim/internal/config"
	"github.com/peterkuimelis/tcgsim/internal/web"
)

func main() {
	defaults, err := config.Load()
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	port := flag.Int("port", defaults.Port, "HTTP port to listen on")
	decks := flag.String("decks", defaults.Decks, "path to decks YAML file (built-in decks if empty)")
	catalog := flag.String("catalog", defaults.Catalog, "path to catalog YAML file (built-in catalog if empty)")
	flag.Parse()

	data, err := config.LoadData(*catalog, *decks)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	srv := web.NewServer(data, defaults)

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("tcgsim web UI listening on http://localhost:%d", *port)
	if err := srv.ListenAndServe(addr); err != nil {
		config.Exitf("Error: %v", err)
	}
}
