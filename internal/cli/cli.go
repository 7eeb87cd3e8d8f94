package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/stackvity/tree-sweep/internal/cli/config"
	"github.com/stackvity/tree-sweep/internal/cli/hooks"
	"github.com/stackvity/tree-sweep/internal/cli/ui"
	"github.com/stackvity/tree-sweep/pkg/sweep"
)

// Streams are the terminal ends a run reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process's standard streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Execute is the RunE body shared by the tool commands: it folds an optional
// positional directory into --path, loads the configuration and runs the tool.
func Execute(ctx context.Context, tool Tool, cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if len(args) == 1 {
		if flags.Changed("path") {
			return fmt.Errorf("%w: directory given both as argument and --path", sweep.ErrConfigValidation)
		}
		if err := flags.Set("path", args[0]); err != nil {
			return err
		}
	}
	cfgFile, _ := flags.GetString("config")
	profileName, _ := flags.GetString("profile")

	settings, logger, err := config.LoadAndValidate(tool.Config, cfgFile, profileName, flags)
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	_, err = Run(ctx, tool, settings, logger, Streams{
		In:  cmd.InOrStdin(),
		Out: cmd.OutOrStdout(),
		Err: cmd.ErrOrStderr(),
	})
	return err
}

// Run performs one complete pass of tool: scan, classify, summarize, persist
// the log when requested and offer the tool's follow-up action. Only setup
// failures are returned as errors.
func Run(ctx context.Context, tool Tool, settings config.Settings, logger *slog.Logger, streams Streams) (sweep.Report, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if settings.Logger == nil {
		settings.Logger = logger.Handler()
	}
	logger = logger.With(slog.String("component", "cli"), slog.String("tool", tool.Config.Name))

	processor, err := tool.NewProcessor(settings, settings.Logger)
	if err != nil {
		logger.Error("Cannot set up processor", slog.Any("error", err))
		return sweep.Report{}, err
	}

	// Human output moves to stderr when stdout carries a report document.
	human := streams.Out
	if settings.OutputFormat == sweep.OutputFormatJSON || settings.OutputFormat == sweep.OutputFormatYAML {
		human = streams.Err
	}
	styles := ui.DefaultStyles()

	if tool.Banner != nil {
		fmt.Fprintln(human, tool.Banner(settings.Root))
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		cliHooks *hooks.CLIHooks
		tuiProg  hooks.TUIProgram
		program  *tea.Program
		model    *ui.Model
		tuiDone  chan error
	)
	if tuiEnabled(settings, human) {
		model = ui.NewModel(styles, func() {
			cancel()
			cliHooks.Detach()
		})
		program = tea.NewProgram(model,
			tea.WithInput(streams.In),
			tea.WithOutput(human),
			tea.WithoutSignalHandler(),
		)
		tuiProg = program
	}
	cliHooks = hooks.NewCLIHooks(logger, human, styles.RenderLine, tuiProg)
	if tool.CollectedLine != nil {
		cliHooks.WithCollectedLine(tool.CollectedLine)
	}
	if program != nil {
		tuiDone = make(chan error, 1)
		go func() {
			_, err := program.Run()
			cliHooks.Detach()
			tuiDone <- err
		}()
	}

	opts := settings.Options
	opts.Predicate = tool.NewPredicate(settings)
	opts.Processor = processor
	opts.FormatLine = tool.FormatLine
	opts.EventHooks = cliHooks

	report, runErr := sweep.Run(ctx, opts)
	if program != nil {
		if runErr != nil {
			program.Quit()
		}
		if tuiErr := <-tuiDone; tuiErr != nil {
			logger.Warn("Progress display failed", slog.Any("error", tuiErr))
		}
		// Lines the display never printed, e.g. after the user quit it.
		for _, line := range model.Unprinted() {
			fmt.Fprintln(human, line)
		}
	}
	if runErr != nil {
		logger.Error("Run aborted", slog.Any("error", runErr))
		return report, runErr
	}

	summary := report.SummaryLines(tool.Labels)
	if report.Summary.Total == 0 && tool.EmptyLine != nil {
		fmt.Fprintln(human, tool.EmptyLine(settings.Root))
	} else {
		for _, line := range summary {
			fmt.Fprintln(human, styles.Summary.Render(line))
		}
		if tool.ClosingLine != "" {
			fmt.Fprintln(human, tool.ClosingLine)
		}
	}

	if err := writeDocument(streams.Out, settings.OutputFormat, report); err != nil {
		logger.Error("Cannot write report", slog.Any("error", err))
		fmt.Fprintf(streams.Err, "❌ Failed to write %s report: %v\n", settings.OutputFormat, err)
	}

	if settings.LogPath != "" && report.Log != nil {
		path := config.ResolveLogPath(settings.LogPath, tool.Config.Name, time.Now())
		if err := report.Log.Flush(path, summary); err != nil {
			logger.Error("Cannot save log", slog.String("path", path), slog.Any("error", err))
			fmt.Fprintf(human, "❌ Failed to save log file: %v\n", err)
		} else {
			fmt.Fprintf(human, "📝 Log file saved successfully at: %s\n", path)
		}
	}

	runGate(ctx, tool, settings, report, streams, human, logger)
	return report, nil
}

// tuiEnabled reports whether the live progress display should run.
func tuiEnabled(settings config.Settings, out io.Writer) bool {
	if settings.NoTUI || settings.Verbose || settings.OutputFormat != sweep.OutputFormatText {
		return false
	}
	f, ok := out.(*os.File)
	return ok && ui.IsTerminal(f)
}

func writeDocument(out io.Writer, format sweep.OutputFormat, report sweep.Report) error {
	switch format {
	case sweep.OutputFormatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	case sweep.OutputFormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return err
		}
		return enc.Close()
	}
	return nil
}

func runGate(ctx context.Context, tool Tool, settings config.Settings, report sweep.Report, streams Streams, human io.Writer, logger *slog.Logger) {
	if tool.Gate == nil {
		return
	}
	flagged := report.Flagged(tool.Gate.Kinds...)
	if len(flagged) == 0 {
		return
	}
	if settings.NoPrompt {
		logger.Debug("Skipping confirmation", slog.Int("flagged", len(flagged)))
		return
	}

	var prompt sweep.PromptFunc
	switch {
	case settings.AssumeYes:
		prompt = func(question string) (bool, error) {
			fmt.Fprintln(human, question+"y")
			return true, nil
		}
	default:
		in, inOK := streams.In.(*os.File)
		out, outOK := human.(*os.File)
		if inOK && outOK {
			prompt = ui.NewPrompt(in, out)
		} else {
			prompt = ui.LinePrompt(streams.In, human)
		}
	}

	res := sweep.ConfirmAndAct(ctx, flagged, tool.Gate.Action, tool.Gate.Question, prompt)
	for _, r := range res.Results {
		if r.Err != nil {
			logger.Warn("Follow-up action failed", slog.String("path", r.Item.Path), slog.Any("error", r.Err))
			fmt.Fprintln(human, tool.Gate.FailLine(r))
			continue
		}
		fmt.Fprintln(human, tool.Gate.DoneLine(r.Item))
	}
}
