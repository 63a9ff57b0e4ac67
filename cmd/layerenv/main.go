package main

import (
	"context"
	"os"

	"github.com/Azhovan/layerenv/internal/cli"
	"github.com/Azhovan/layerenv/sourceenv"
)

func main() {
	os.Exit(cli.Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr, sourceenv.Environ()))
}
