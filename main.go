package main

import (
	"os"

	"github.com/jmchantrein/anklume/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
