package main

import (
	"os"

	"github.com/Emdad05/Quiz-Ai/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
