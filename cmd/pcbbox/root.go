package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/soypat/pcbbox"
	"github.com/soypat/pcbbox/config"
	"github.com/spf13/cobra"
)

// app holds the persistent flags and the state shared by subcommands.
type app struct {
	configPath string
	verbose    bool
	quiet      bool
	log        zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}
	root := &cobra.Command{
		Use:   "pcbbox",
		Short: "Parametric PCB enclosure generator",
		Long: `pcbbox builds a box and a lid around a printed circuit board.

The enclosure is described by a TOML file with the sections
  [box] [perforation] [circular_connector] [rectangular_connector]
  [sensor_hole_at_top] [lid_bolt] [mounting] [material] [render]
Keys left out keep their default values.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.verbose && a.quiet {
				return fmt.Errorf("--verbose and --quiet are mutually exclusive")
			}
			a.log = newLogger(cmd.ErrOrStderr(), a.verbose, a.quiet)
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "enclosure TOML file, built-in defaults when empty")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug output")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "only log warnings and errors")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		a.generateCmd(),
		a.planCmd(),
		a.previewCmd(),
		a.drawingCmd(),
		a.inspectCmd(),
	)
	return root
}

func newLogger(w io.Writer, verbose, quiet bool) zerolog.Logger {
	level := zerolog.InfoLevel
	switch {
	case verbose:
		level = zerolog.DebugLevel
	case quiet:
		level = zerolog.WarnLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().Timestamp().Logger()
}

// loadConfig reads the --config file, or the defaults when none is given.
func (a *app) loadConfig() (config.Config, error) {
	if a.configPath == "" {
		a.log.Debug().Msg("no config file given, using built-in defaults")
		return config.Default(), nil
	}
	cfg, warnings, err := config.Load(a.configPath)
	if err != nil {
		return config.Config{}, err
	}
	for _, w := range warnings {
		a.log.Warn().Str("config", a.configPath).Msg(w)
	}
	a.log.Debug().Str("config", a.configPath).Msg("config loaded")
	return cfg, nil
}

// loadLayout reads the configuration and derives its layout.
func (a *app) loadLayout() (config.Config, pcbbox.Layout, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return config.Config{}, pcbbox.Layout{}, err
	}
	l, err := cfg.Layout()
	if err != nil {
		return config.Config{}, pcbbox.Layout{}, err
	}
	return cfg, l, nil
}
