package main

import (
	"flag"
	"fmt"
	"os"

	"bjd/internal/di"
	"bjd/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the configuration file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "duplicate logs to the console")
	flag.BoolVar(&flags.DemoMode, "demo", false, "seed sample journal entries on first start")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "bjd: %s\n", err)
		os.Exit(1)
	}
}
