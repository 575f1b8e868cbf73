package main

import (
	"os"

	"github.com/ngrash/go-cal/cmd/caltool/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
