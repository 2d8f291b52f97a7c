package main

import (
	"os"

	"github.com/skylens/weather-assistant/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
