package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	apierrors "github.com/diogo/aura/internal/errors"
	"github.com/diogo/aura/internal/models"
	"github.com/diogo/aura/internal/render"
	"github.com/diogo/aura/internal/view"
)

var (
	colorText    = lipgloss.Color("#e2e8f0")
	colorTextDim = lipgloss.Color("#64748b")
	colorSuccess = lipgloss.Color("#34d399")
	colorPrimary = lipgloss.Color("#22d3ee")
	colorWarning = lipgloss.Color("#fbbf24")
)

// Styles matching the interactive interface
var (
	assistantLabelStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	assistantBubbleStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Foreground(colorText).
				Padding(0, 1).
				MarginBottom(1)

	noteStyle = lipgloss.NewStyle().Foreground(colorTextDim)
	warnStyle = lipgloss.NewStyle().Foreground(colorWarning)
	okStyle   = lipgloss.NewStyle().Foreground(colorSuccess)
)

// queryFlags are the prompt and output flags of the one-shot commands
type queryFlags struct {
	file   string
	output string
	raw    bool
}

var queryUsage = map[view.Mode]struct {
	use, short, example string
}{
	view.ModeChat: {"ask [prompt]", "Send a single chat query", `  aura ask "What is Go?"
  cat notes.md | aura ask -o summary.md`},
	view.ModeDeep: {"deep [prompt]", "Run a single deep analysis", `  aura deep "Prove that there are infinitely many primes"
  aura deep -f problem.md --raw`},
	view.ModeWeb: {"web [prompt]", "Answer a question grounded in web search", `  aura web "What changed in the latest Go release?"`},
}

// newQueryCmd creates the one-shot command for a text mode
func newQueryCmd(deps *Dependencies, flags *globalFlags, mode view.Mode) *cobra.Command {
	qf := &queryFlags{}
	usage := queryUsage[mode]

	cmd := &cobra.Command{
		Use:     usage.use,
		Short:   usage.short,
		Long:    usage.short + " using the " + mode.Title() + " view and print the reply.",
		Example: usage.example,
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(deps, qf, args)
			if err != nil {
				return err
			}
			if strings.TrimSpace(prompt) == "" {
				return apierrors.ErrEmptyPrompt
			}
			return runQuery(cmd, deps, flags, qf, mode, prompt)
		},
	}
	addQueryFlags(cmd, qf)
	return cmd
}

// newImageCmd creates the one-shot image analysis command
func newImageCmd(deps *Dependencies, flags *globalFlags) *cobra.Command {
	qf := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "image PATH [prompt]",
		Short: "Analyse a local image",
		Long: fmt.Sprintf(`Analyse a local image with the Image Analysis view.

Supported formats: %s (up to %d MB).`,
			strings.Join(models.SupportedImageExtensions(), ", "), models.MaxImageSize/(1024*1024)),
		Example: `  aura image photo.png "What is in this picture?"
  echo "Transcribe the text" | aura image scan.jpg`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt, err := readPrompt(deps, qf, args[1:])
			if err != nil {
				return err
			}
			return runImage(cmd, deps, flags, qf, args[0], prompt)
		},
	}
	addQueryFlags(cmd, qf)
	return cmd
}

func addQueryFlags(cmd *cobra.Command, qf *queryFlags) {
	cmd.Flags().StringVarP(&qf.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().StringVarP(&qf.output, "output", "o", "", "Save response to file")
	cmd.Flags().BoolVar(&qf.raw, "raw", false, "Print only the reply text, without decoration")
}

// readPrompt resolves the prompt from --file, piped stdin or the arguments,
// in that order.
func readPrompt(deps *Dependencies, qf *queryFlags, args []string) (string, error) {
	if qf.file != "" {
		data, err := os.ReadFile(qf.file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), nil
	}

	if len(args) == 0 && deps.StdinPiped != nil && deps.StdinPiped() {
		data, err := io.ReadAll(deps.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	return strings.Join(args, " "), nil
}

// runQuery sends a single prompt through the view for mode and prints the reply
func runQuery(cmd *cobra.Command, deps *Dependencies, flags *globalFlags, qf *queryFlags, mode view.Mode, prompt string) error {
	decorated := !qf.raw && deps.IsTerminal()

	s, err := openSession(cmd.Context(), deps, flags, deps.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	ctrl := s.reg.Controller(mode)

	var spin *spinner
	if decorated {
		spin = newSpinner(deps.Stderr, mode.Indicator())
		spin.start()
	}

	msg, ok := ctrl.Send(cmd.Context(), prompt)
	if !ok {
		if spin != nil {
			spin.stopWithError()
		}
		return fmt.Errorf("%s did not accept the prompt", mode.Title())
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	return writeReply(deps, s, qf, decorated, msg.Text, msg.Sources)
}

// runImage selects the image, runs the analysis and prints the result
func runImage(cmd *cobra.Command, deps *Dependencies, flags *globalFlags, qf *queryFlags, path, prompt string) error {
	decorated := !qf.raw && deps.IsTerminal()

	s, err := openSession(cmd.Context(), deps, flags, deps.Stderr)
	if err != nil {
		return err
	}
	defer s.Close()

	ic := s.reg.Image
	if err := ic.SelectFile(path); err != nil {
		return err
	}
	ic.SetPrompt(prompt)
	if decorated {
		fmt.Fprintln(deps.Stderr, noteStyle.Render("🖼  "+ic.Preview().Summary()))
	}

	var spin *spinner
	if decorated {
		spin = newSpinner(deps.Stderr, view.ModeImage.Indicator())
		spin.start()
	}

	text, ok := ic.Run(cmd.Context())
	if !ok {
		if spin != nil {
			spin.stopWithError()
		}
		if msg := ic.Err(); msg != "" {
			return errors.New(msg)
		}
		return fmt.Errorf("%s did not accept the request", view.ModeImage.Title())
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	return writeReply(deps, s, qf, decorated, text, nil)
}

// writeReply prints or saves a reply. Saved and raw output is markdown with
// the sources appended; terminal output is rendered inside a bubble.
func writeReply(deps *Dependencies, s *session, qf *queryFlags, decorated bool, text string, sources []models.Citation) error {
	plain := text
	if list := render.SourcesMarkdown(sources); list != "" {
		plain = strings.TrimRight(text, "\n") + "\n\n" + list
	}

	if decorated && s.cfg.CopyToClipboard {
		if err := deps.CopyText(text); err != nil {
			fmt.Fprintln(deps.Stderr, warnStyle.Render(fmt.Sprintf("⚠ Failed to copy to clipboard: %v", err)))
		} else {
			fmt.Fprintln(deps.Stderr, okStyle.Render("✓ Copied to clipboard"))
		}
	}

	if qf.output != "" {
		if err := os.WriteFile(qf.output, []byte(plain), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if decorated {
			fmt.Fprintln(deps.Stderr, okStyle.Render(fmt.Sprintf("✓ Response saved to %s", qf.output)))
		}
		return nil
	}

	if !decorated {
		if !strings.HasSuffix(plain, "\n") {
			plain += "\n"
		}
		_, err := io.WriteString(deps.Stdout, plain)
		return err
	}

	bubbleWidth := deps.TermWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}
	contentWidth := bubbleWidth - 4

	rendered, err := render.Reply(text, sources, render.OptionsFromConfig(s.cfg.Markdown, contentWidth))
	if err != nil {
		s.logger.Warn("markdown render failed", "error", err)
	}

	fmt.Fprintln(deps.Stdout, assistantLabelStyle.Render("✦ Aura"))
	fmt.Fprintln(deps.Stdout, assistantBubbleStyle.Width(bubbleWidth).Render(rendered))
	return nil
}
