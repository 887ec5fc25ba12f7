package config

import (
	"github.com/spf13/viper"
)

// Default configuration values.
const (
	// DefaultVerbose is the default verbose setting.
	DefaultVerbose = false

	// DefaultDebug is the default debug setting.
	DefaultDebug = false

	// DefaultEnableColor is the default color output setting.
	DefaultEnableColor = false

	// DefaultMatchCase decides pattern case sensitivity from the platform.
	DefaultMatchCase = MatchCaseAuto

	// DefaultArtifactPattern is the result-artifact glob used when a policy
	// does not configure one. TRX is the VSTest result format.
	DefaultArtifactPattern = "*.trx"
)

// setDefaults configures default values in the viper instance.
func setDefaults(viperInstance *viper.Viper) {
	viperInstance.SetDefault("verbose", DefaultVerbose)
	viperInstance.SetDefault("debug", DefaultDebug)
	viperInstance.SetDefault("enable_color", DefaultEnableColor)
	viperInstance.SetDefault("match_case", DefaultMatchCase)
}
