package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/peterkuimelis/tcgsim/internal/config"
	tcgmcp "github.com/peterkuimelis/tcgsim/internal/mcp"
)

func main() {
	defaults, err := config.Load()
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	decks := flag.String("decks", defaults.Decks, "path to decks YAML file (built-in decks if empty)")
	catalog := flag.String("catalog", defaults.Catalog, "path to catalog YAML file (built-in catalog if empty)")
	flag.Parse()

	data, err := config.LoadData(*catalog, *decks)
	if err != nil {
		config.Exitf("Error: %v", err)
	}
	tcgmcp.SetData(data)
	tcgmcp.SetDefaults(defaults)

	s := server.NewMCPServer("tcgsim", "1.0.0")
	tcgmcp.RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
