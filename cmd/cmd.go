package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/carlmjohnson/versioninfo"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/robinovitch61/itemview/internal"
	"github.com/robinovitch61/itemview/internal/constants"
	"github.com/robinovitch61/itemview/internal/itemview"
	"github.com/robinovitch61/itemview/internal/keymap"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	// Version is public so users can optionally specify or override the version
	// at build time by passing in ldflags, e.g.
	//   go build -ldflags "-X github.com/robinovitch61/itemview/cmd.Version=vX.Y.Z"
	Version = ""
)

type arg struct {
	cliShort, cfgFileEnvVar, description, defaultString string
	isBool, isInt, defaultIfBool                        bool
	defaultIfInt                                        int
}

var (
	rootNameToArg = map[string]arg{
		"async": {
			cliShort:      "a",
			cfgFileEnvVar: "async",
			description:   `If present, rows beyond the viewport are created asynchronously`,
			isBool:        true,
		},
		"async-delay": {
			cfgFileEnvVar: "async-delay",
			description:   `How long an asynchronous row takes to create, e.g. 30ms, 1s`,
			defaultString: constants.DefaultAsyncDelay.String(),
		},
		"buffer": {
			cliShort:      "b",
			cfgFileEnvVar: "buffer",
			description:   `Lines kept materialized beyond each edge of the viewport`,
			isInt:         true,
			defaultIfInt:  constants.DefaultCacheBuffer,
		},
		"count": {
			cliShort:      "c",
			cfgFileEnvVar: "count",
			description:   `Number of generated rows to start with`,
			isInt:         true,
			defaultIfInt:  constants.DefaultCount,
		},
		"footer": {
			cfgFileEnvVar: "footer",
			description:   `Text of a banner shown after the last row`,
		},
		"header": {
			cfgFileEnvVar: "header",
			description:   `Text of a banner shown before the first row`,
		},
		"help": {
			description: `Print usage`,
		},
		"highlight": {
			cfgFileEnvVar: "highlight",
			description:   `If present, an animated highlight bar follows the current row`,
			isBool:        true,
		},
		"range-end": {
			cfgFileEnvVar: "range-end",
			description:   `Last line of the preferred highlight range`,
			isInt:         true,
		},
		"range-mode": {
			cliShort:      "r",
			cfgFileEnvVar: "range-mode",
			description:   `Highlight range mode: none, apply or strict`,
			defaultString: itemview.NoHighlightRange.String(),
		},
		"range-start": {
			cfgFileEnvVar: "range-start",
			description:   `First line of the preferred highlight range`,
			isInt:         true,
		},
		"reversed": {
			cfgFileEnvVar: "reversed",
			description:   `If present, the list flows from the bottom up`,
			isBool:        true,
		},
		"sections": {
			cliShort:      "s",
			cfgFileEnvVar: "sections",
			description:   `If present, group rows under section headers by their first letter`,
			isBool:        true,
		},
		"spacing": {
			cfgFileEnvVar: "spacing",
			description:   `Blank lines between rows`,
			isInt:         true,
		},
		"transitions": {
			cliShort:      "t",
			cfgFileEnvVar: "transitions",
			description:   `If present, animate inserted, removed and displaced rows`,
			isBool:        true,
		},
		"wrap": {
			cliShort:      "w",
			cfgFileEnvVar: "wrap",
			description:   `Wrap rows to the terminal width`,
			isBool:        true,
			defaultIfBool: true,
		},
		"wrap-nav": {
			cfgFileEnvVar: "wrap-nav",
			description:   `If present, moving past either end of the list wraps around`,
			isBool:        true,
		},
	}

	description = fmt.Sprintf(`itemview %s

itemview is an interactive demo of a virtualized list that materializes only the rows near the viewport

Every flag can also be set with an ITEMVIEW_ prefixed environment variable, e.g. ITEMVIEW_COUNT=50`,
		getVersion(),
	)

	rootCmd = &cobra.Command{
		Use:   "itemview",
		Short: "itemview: virtualized list demo",
		Long:  description,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cmd, rootNameToArg)
		},
		RunE:    mainEntrypoint,
		Version: getVersion(),
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cliLong := "help"
	rootCmd.PersistentFlags().BoolP(cliLong, rootNameToArg[cliLong].cliShort, rootNameToArg[cliLong].defaultIfBool, rootNameToArg[cliLong].description)

	for _, cliLong = range []string{
		"async",
		"async-delay",
		"buffer",
		"count",
		"footer",
		"header",
		"highlight",
		"range-end",
		"range-mode",
		"range-start",
		"reversed",
		"sections",
		"spacing",
		"transitions",
		"wrap",
		"wrap-nav",
	} {
		c := rootNameToArg[cliLong]
		if c.isBool {
			rootCmd.PersistentFlags().BoolP(cliLong, c.cliShort, c.defaultIfBool, c.description)
		} else if c.isInt {
			rootCmd.PersistentFlags().IntP(cliLong, c.cliShort, c.defaultIfInt, c.description)
		} else {
			rootCmd.PersistentFlags().StringP(cliLong, c.cliShort, c.defaultString, c.description)
		}
		_ = viper.BindPFlag(c.cfgFileEnvVar, rootCmd.PersistentFlags().Lookup(cliLong))
	}
	rootCmd.SetVersionTemplate(`{{printf "itemview %s\n" .Version}}`)
	rootCmd.Flags().BoolP("version", "v", false, "Show itemview version")
}

func initConfig(cmd *cobra.Command, nameToArg map[string]arg) error {
	// bind viper to env vars, e.g. ITEMVIEW_RANGE_MODE for range-mode
	viper.SetEnvPrefix("itemview")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	return bindFlags(cmd, nameToArg)
}

func bindFlags(cmd *cobra.Command, nameToArg map[string]arg) error {
	v := viper.GetViper()
	var err error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		viperName := nameToArg[f.Name].cfgFileEnvVar
		if viperName == "" || err != nil {
			return
		}

		// Apply the viper value to the flag when the flag is not manually specified
		// and viper has a value from an env var
		if !f.Changed && v.IsSet(viperName) {
			if setErr := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", v.Get(viperName))); setErr != nil {
				err = fmt.Errorf("setting flag %s: %w", f.Name, setErr)
			}
		}
	})
	return err
}

func mainEntrypoint(cmd *cobra.Command, _ []string) error {
	config, err := getConfig(cmd)
	if err != nil {
		return err
	}
	program := tea.NewProgram(internal.InitialModel(config), tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error on itemview startup: %w", err)
	}
	return nil
}

func getVersion() string {
	if Version != "" {
		return Version
	}
	return versioninfo.Short()
}

func getBool(cmd *cobra.Command, name string) bool {
	return cmd.Flags().Lookup(name).Value.String() == "true"
}

func getAsyncDelay(cmd *cobra.Command) (time.Duration, error) {
	d, err := time.ParseDuration(cmd.Flags().Lookup("async-delay").Value.String())
	if err != nil {
		return 0, fmt.Errorf("error parsing async-delay: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("async-delay must not be negative, got %s", d)
	}
	return d, nil
}

func getConfig(cmd *cobra.Command) (internal.Config, error) {
	flags := cmd.Flags()
	ints := map[string]int{}
	for _, name := range []string{"buffer", "count", "range-end", "range-start", "spacing"} {
		n, err := flags.GetInt(name)
		if err != nil {
			return internal.Config{}, fmt.Errorf("error parsing %s: %w", name, err)
		}
		ints[name] = n
	}
	rangeMode, err := internal.ParseRangeMode(flags.Lookup("range-mode").Value.String())
	if err != nil {
		return internal.Config{}, err
	}
	asyncDelay, err := getAsyncDelay(cmd)
	if err != nil {
		return internal.Config{}, err
	}
	return internal.Config{
		KeyMap:             keymap.DefaultKeyMap(),
		Count:              ints["count"],
		CacheBuffer:        ints["buffer"],
		Spacing:            ints["spacing"],
		RangeMode:          rangeMode,
		RangeStart:         ints["range-start"],
		RangeEnd:           ints["range-end"],
		AnimateHighlight:   getBool(cmd, "highlight"),
		Async:              getBool(cmd, "async"),
		AsyncDelay:         asyncDelay,
		KeyNavigationWraps: getBool(cmd, "wrap-nav"),
		Reversed:           getBool(cmd, "reversed"),
		Header:             flags.Lookup("header").Value.String(),
		Footer:             flags.Lookup("footer").Value.String(),
		Sections:           getBool(cmd, "sections"),
		Transitions:        getBool(cmd, "transitions"),
		Wrap:               getBool(cmd, "wrap"),
		Version:            getVersion(),
	}, nil
}
