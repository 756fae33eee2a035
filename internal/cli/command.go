package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/idelchi/dusage/internal/bytefmt"
	"github.com/idelchi/dusage/internal/integration"
	"github.com/idelchi/dusage/internal/walk"
)

//nolint:gochecknoglobals // Interface assertions
var (
	_ pflag.Value = (*bytefmt.System)(nil)
	_ pflag.Value = (*walk.Sort)(nil)
)

// EnvPrefix prefixes environment variables overriding settings (DUSAGE_THREADS, ...).
const EnvPrefix = "DUSAGE"

// CLI represents the command-line interface.
type CLI struct {
	version   string
	configDir string
}

// New creates a new CLI instance with the given version.
func New(version string) CLI {
	return CLI{
		version:   version,
		configDir: filepath.Join(xdg.ConfigHome, "dusage"),
	}
}

// Execute runs the CLI with the process arguments. An interrupt cancels the walk
// and the partial result is still printed.
func (c CLI) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return c.Command(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// Command builds the root command writing reports to stdout and diagnostics to stderr.
func (c CLI) Command(stdout, stderr io.Writer) *cobra.Command {
	var (
		configFile  string
		initScript  bool
		format      = bytefmt.Binary
		sort        = walk.SortNone
		cfg         = viper.New()
		replaceDash = strings.NewReplacer("-", "_")
	)

	cmd := &cobra.Command{
		Use:   "dusage [flags] [path...]",
		Short: "Summarize the disk usage of directory trees",
		Long: heredoc.Doc(`
			dusage walks one or more directory trees in parallel and reports how much
			space their regular files use, together with the file count and the
			smallest and largest file seen. Hidden files are always included.

			Paths default to the current directory. Unreadable entries are counted
			and skipped; the exit status is 1 when any entry or path could not be read.

			Settings are read, in increasing precedence, from the config file
			($XDG_CONFIG_HOME/dusage/config.yaml, or --config), from DUSAGE_*
			environment variables (e.g. DUSAGE_THREADS=4) and from flags.
		`),
		Example: heredoc.Doc(`
			dusage ~/src ~/Downloads
			dusage --format metric --sort alpha .
			dusage -o json /var/log
		`),
		Version:       c.version,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if initScript {
				rendered, err := integration.Render()
				if err != nil {
					return fmt.Errorf("rendering integration script: %w", err)
				}

				_, err = fmt.Fprintln(stdout, rendered)

				return err
			}

			if err := c.readConfig(cfg, configFile); err != nil {
				return err
			}

			settings, err := loadSettings(cfg)
			if err != nil {
				return err
			}

			settings.Paths = args

			return logic(cmd.Context(), settings, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.SortFlags = false

	flags.IntP("threads", "t", 0, "Directory-reading workers per path (0 = number of CPUs)")
	flags.VarP(&format, "format", "f", "Byte format: metric, binary or bytes")
	flags.String("color", string(defaultColor), "Color output: auto, always or never")
	flags.Var(&sort, "sort", "Entry order within directories: none or alpha")
	flags.StringP("output", "o", defaultOutput, "Output format: "+strings.Join(allowedOutputs, ", "))
	flags.IntP("parallel", "p", 1, "Number of paths walked at the same time")
	flags.Bool("progress", true, "Show a progress line on stderr when it is a terminal")
	flags.Bool("debug", false, "Enable debug output")
	flags.StringVar(&configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/dusage/config.yaml)")
	flags.BoolVarP(&initScript, "init", "i", false, "Output init script for shell usage")

	cfg.SetEnvPrefix(EnvPrefix)
	cfg.SetEnvKeyReplacer(replaceDash)
	cfg.AutomaticEnv()

	for _, name := range settingKeys {
		if err := cfg.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %q: %v", name, err))
		}
	}

	return cmd
}

// readConfig loads the explicit config file, or the first config found in the
// config directory. A missing default config is not an error.
func (c CLI) readConfig(cfg *viper.Viper, file string) error {
	if file != "" {
		cfg.SetConfigFile(file)
	} else {
		cfg.SetConfigName("config")
		cfg.AddConfigPath(c.configDir)
	}

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}

		return fmt.Errorf("reading config: %w", err)
	}

	return nil
}
