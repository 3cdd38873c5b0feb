package main

import (
	"os"

	sdrcmder "github.com/papercomputeco/sdr/cmd/sdr"
)

func main() {
	cmd := sdrcmder.NewSDRCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
