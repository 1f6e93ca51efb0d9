package main

import (
	"context"
	"os"

	"github.com/hadinajem52/PixieHabitTracker/internal/cli"
)

var Version = "dev"

func main() {
	if err := cli.Execute(context.Background(), Version); err != nil {
		os.Exit(1)
	}
}
