package main

import (
	"os"

	"github.com/hollowmere/emberfall/internal/interface/cli"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
