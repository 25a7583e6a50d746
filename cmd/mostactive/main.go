package main

import (
	"os"

	"example.com/mostactive/internal/command"
)

func main() {
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
