package main

import (
	"github.com/fatih/color"
	"github.com/spf13/viper"
)

var red = color.New(color.FgRed).SprintFunc()

// processGlobalFlags reads global flags from Viper and adjusts the
// environment accordingly — the same role it plays in deepnoodle-ai's
// risor CLI.
func processGlobalFlags() {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
}
