// Package commands provides CLI commands for aura.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/aura/internal/config"
	"github.com/diogo/aura/internal/tui"
	"github.com/diogo/aura/internal/view"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// globalFlags are shared by every command
type globalFlags struct {
	verbose   bool
	transport string
	theme     string
}

// apply overrides configuration values with the flags that were set
func (f *globalFlags) apply(cfg *config.Config) {
	if f.verbose {
		cfg.Verbose = true
	}
	if f.transport != "" {
		cfg.Transport = f.transport
	}
	if f.theme != "" {
		cfg.Theme = f.theme
	}
}

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	flags := &globalFlags{}
	var modeFlag string

	cmd := &cobra.Command{
		Use:   "aura",
		Short: "Terminal front end for Gemini chat, vision, reasoning and web search",
		Long: `aura is a terminal front end for the Gemini API with four views:

  Standard Query    conversational chat
  Image Analysis    describe or analyse a local image
  Deep Analysis     extended reasoning on a hard question
  Web Query         answers grounded in Google Search, with sources

The API key is read from API_KEY (or GEMINI_API_KEY), optionally from a
.env file in the working directory.

Examples:
  aura                                   Start the interactive interface
  aura --mode web_query                  Start in the Web Query view
  aura ask "What is Go?"                 Send a single chat query
  aura deep -f problem.md                Deep analysis of a prompt file
  aura web "latest Go release" --raw     Grounded answer as plain markdown
  aura image photo.png "What is this?"   Analyse an image
  cat prompt.md | aura ask -o answer.md  Read stdin, save the reply`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "aura %s (built %s)\n", Version, BuildTime)
				return nil
			}

			s, err := openSession(cmd.Context(), deps, flags, nil)
			if err != nil {
				return err
			}
			defer s.Close()

			mode := view.ParseMode(s.cfg.DefaultView)
			if modeFlag != "" {
				if mode, err = parseModeFlag(modeFlag); err != nil {
					return err
				}
			}

			s.logger.Info("starting interface", "mode", string(mode))
			return deps.RunTUI(cmd.Context(), s.reg, s.cfg, mode, s.logger)
		},
	}

	cmd.SetIn(deps.Stdin)
	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Log debug records (mirrored to stderr for one-shot commands)")
	cmd.PersistentFlags().StringVar(&flags.transport, "transport", "", "Inference transport: sdk or rest")
	cmd.PersistentFlags().StringVar(&flags.theme, "theme", "", "Interface palette: aura or tokyonight")
	cmd.Flags().StringVarP(&modeFlag, "mode", "m", "", "Starting view: chat, image, deep_analysis or web_query")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(
		newQueryCmd(deps, flags, view.ModeChat),
		newQueryCmd(deps, flags, view.ModeDeep),
		newQueryCmd(deps, flags, view.ModeWeb),
		newImageCmd(deps, flags),
		NewConfigCmd(deps),
	)

	return cmd
}

// parseModeFlag accepts a mode identifier or its sidebar number
func parseModeFlag(s string) (view.Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, info := range view.Modes() {
		if s == string(info.Mode) || s == fmt.Sprint(i+1) {
			return info.Mode, nil
		}
	}
	return "", fmt.Errorf("unknown mode %q (want chat, image, deep_analysis or web_query)", s)
}

// Execute runs the root command
func Execute() {
	deps := NewDependencies()
	if err := NewRootCmd(deps).Execute(); err != nil {
		fmt.Fprintln(deps.Stderr, tui.FormatError(err))
		os.Exit(1)
	}
}
