package main

import (
	"os"

	"rosview/internal/ui/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
