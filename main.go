package main

import (
	"fmt"
	"os"

	"github.com/openleaf/reader/internal/cli"
	"github.com/openleaf/reader/internal/config"
	"github.com/openleaf/reader/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// No arguments or "serve" runs the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "scan":
		cmd := cli.NewLibraryScanCommand()
		if err := cmd.ParseFlags(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("openleaf reader %s (%s)\n", Version, Commit)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf(`Usage: %s [command] [options]

Commands:
  serve       Start the HTTP server (default)
  scan        Import all EPUB files from a directory
  version     Print version information
  help        Show this help

Run '%s <command> -h' for command options.
`, os.Args[0], os.Args[0])
}
