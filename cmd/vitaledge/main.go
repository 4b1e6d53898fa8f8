package main

import (
	"os"

	"github.com/samseatt/vitaledge-pi-iot/pkg/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
