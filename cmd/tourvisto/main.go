package main

import (
	"flag"
	"fmt"
	"os"
	"tourvisto/internal/di"
	"tourvisto/internal/structures"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "config", "config.yaml", "path to the yaml config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "also log to stderr")
	flag.Parse()

	_, cleanup, err := di.InitApp(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "tourvisto: %s\n", err)
		os.Exit(1)
	}
	cleanup()
}
