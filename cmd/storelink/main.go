// cmd/storelink/main.go
package main

import (
	// Standard libraries
	"fmt"
	"os"

	// External libraries
	"github.com/minio/cli"
)

// main runs the storelink command line, treating the local machine as the visitor.
func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newApp - the command tree with its global flags
func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "storelink"
	app.Usage = "Build regional Amazon links for HTML pages and the local environment."
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "cache",
			Usage: "Path of the remembered region file (default: user config dir)",
		},
		cli.StringFlag{
			Name:   "log-level",
			Usage:  "Log level written to stderr",
			Value:  "warn",
			EnvVar: "LOG_LEVEL",
		},
	}
	app.Commands = []cli.Command{
		enhanceCmd,
		regionCmd,
		urlCmd,
		storesCmd,
	}
	return app
}
