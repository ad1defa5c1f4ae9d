package main

import (
	"os"

	"github.com/chamilad/trashbin/internal/cli"
)

const appName = "trash"

// These variables are set in build step
var (
	version   = "unset"
	revision  = "unset"
	buildDate = "unknown"
)

func main() {
	os.Exit(cli.Run(cli.Version{
		AppName:   appName,
		Version:   version,
		Revision:  revision,
		BuildDate: buildDate,
	}))
}
