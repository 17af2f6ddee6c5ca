package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sourcewave/neuroio"
)

// settings holds the flag and config values shared by the subcommands.
type settings struct {
	debug       bool
	configFile  string
	calibration map[string]float64
}

// rootCommand creates and returns the root command.
func rootCommand() *cobra.Command {
	s := &settings{}

	rootCmd := &cobra.Command{
		Use:     "curryinfo",
		Short:   "Inspect EEG/MEG acquisition recordings",
		Version: neuroio.GetVersion(),
	}

	rootCmd.PersistentFlags().BoolVarP(&s.debug, "debug", "d", false, "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&s.configFile, "config", "", "Path to config file")

	rootCmd.AddCommand(
		infoCommand(s),
		eventsCommand(s),
		exportCommand(s),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if s.debug {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		return s.loadConfig()
	}

	return rootCmd
}

// loadConfig reads the optional config file. The only recognized section
// is "calibration", a unit-name to scale-factor table merged over the
// built-in defaults so individual units can be overridden:
//
//	calibration:
//	  uV: 1e-6
//	  fT: 1.0
func (s *settings) loadConfig() error {
	v := viper.New()
	v.SetConfigName("curryinfo")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}
	if s.configFile != "" {
		v.SetConfigFile(s.configFile)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if s.configFile == "" && errors.As(err, &notFound) {
			s.calibration = neuroio.DefaultCalibration()
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}
	slog.Debug("loaded config", "file", v.ConfigFileUsed())

	s.calibration = neuroio.DefaultCalibration()
	return mergeCalibration(s.calibration, v.Get("calibration"))
}

// mergeCalibration folds a config-file calibration section into the
// table. The raw value is used instead of viper's string-map accessor
// because the latter lowercases keys, and unit strings like "uV" and
// "fT" are case-sensitive. Config keys that match an existing unit up to
// case override that unit's entry, so the override still lands when the
// config layer has folded the key's case.
func mergeCalibration(table map[string]float64, raw any) error {
	if raw == nil {
		return nil
	}
	section, ok := raw.(map[string]any)
	if !ok {
		return fmt.Errorf("calibration section is not a unit-to-scale map")
	}

	canonical := make(map[string]string, len(table))
	for unit := range table {
		canonical[strings.ToLower(unit)] = unit
	}

	for unit, scale := range section {
		f, ok := toFloat(scale)
		if !ok {
			return fmt.Errorf("calibration entry %q is not a number", unit)
		}
		if known, ok := canonical[strings.ToLower(unit)]; ok {
			unit = known
		}
		table[unit] = f
	}
	return nil
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}
