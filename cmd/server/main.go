package main

import (
	"os"

	"github.com/mmynk/orderwidget/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
