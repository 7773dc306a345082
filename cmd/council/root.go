package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ShayCichocki/council/internal/agent"
	"github.com/ShayCichocki/council/internal/config"
	"github.com/ShayCichocki/council/internal/council"
	iexec "github.com/ShayCichocki/council/internal/exec"
	"github.com/ShayCichocki/council/internal/logging"
	"github.com/ShayCichocki/council/internal/report"
	"github.com/ShayCichocki/council/internal/tui"
)

// noQuestionMessage is printed when interactive mode gets an empty question.
const noQuestionMessage = "No question provided. Exiting."

var (
	configPath      string
	logLevel        string
	noColor         bool
	agentBinary     string
	modelsFlag      string
	chairmanFlag    string
	timeoutFlag     string
	chairmanTimeout string
	jsonOutput      bool
)

var rootCmd = &cobra.Command{
	Use:   "council [question...]",
	Short: "Ask a council of LLMs and get one synthesized answer",
	Long: `council sends a question to several models through cursor-agent,
has every model review the anonymized answers, and asks a chairman model
to synthesize one final answer.

With no arguments, prompts for the question interactively.

Flags go before the question; every word after the first question word is
part of the question, dashes included. A question whose first word is a
command name (config, status, version, help) is still asked as long as the
rest of it is not a valid use of that command. Use -- to force it:

  council --json -- version of go is newest?

Stages:
  1. Every council model answers the question in parallel
  2. Every council model ranks the anonymized answers (skipped with fewer than 2)
  3. The chairman synthesizes the final answer`,
	Args:              cobra.ArbitraryArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	RunE:              runRoot,
}

// Execute runs the root command
func Execute() {
	rootCmd.SetArgs(questionArgs(rootCmd, os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorText(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Use this config file instead of the XDG and project search")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().StringVar(&agentBinary, "agent", "", "Agent CLI to invoke (default cursor-agent)")

	rootCmd.Flags().StringVar(&modelsFlag, "models", "", "Comma-separated council models")
	rootCmd.Flags().StringVar(&chairmanFlag, "chairman", "", "Chairman model")
	rootCmd.Flags().StringVar(&timeoutFlag, "timeout", "", "Per-model timeout (e.g. 120s)")
	rootCmd.Flags().StringVar(&chairmanTimeout, "chairman-timeout", "", "Chairman timeout (e.g. 180s)")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "Write the run report as JSON to stdout; progress goes to stderr")
	rootCmd.Flags().SetInterspersed(false)

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]string{
	"models":           "council.models",
	"chairman":         "council.chairman",
	"timeout":          "timeouts.model",
	"chairman-timeout": "timeouts.chairman",
	"agent":            "agent.binary",
	"log-level":        "log.level",
}

// loadConfig loads the configuration and applies any flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := config.SetValue(cfg, key, f.Value.String()); err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
	}
	if noColor {
		cfg.Display.Color = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Warn("received shutdown signal", zap.String("signal", sig.String()))
			cancel()
		case <-ctx.Done():
		}
	}()

	runID := uuid.New().String()[:8]
	out := selectStreams(jsonOutput, os.Stdout, os.Stderr)

	cursor := agent.New(iexec.NewRunner(), agent.Options{
		Binary:        cfg.Agent.Binary,
		ScratchRoot:   cfg.Agent.ScratchDir,
		Tag:           runID,
		StatusTimeout: cfg.Timeouts.Status,
		Logger:        logger.With(zap.String("run_id", runID)),
	})

	if err := preflight(ctx, cursor, out.progress, cfg.Display.Color); err != nil {
		return err
	}

	question, err := resolveQuestion(args, func() (string, error) {
		return tui.Ask(os.Stdin, out.progress)
	})
	if err != nil {
		return err
	}
	if question == "" {
		fmt.Fprintln(out.progress, noQuestionMessage)
		return nil
	}

	return runCouncil(ctx, runOptions{
		Config:   cfg,
		Querier:  cursor,
		Question: question,
		RunID:    runID,
		Logger:   logger,
		Progress: out.progress,
		JSON:     out.json,
	})
}

// streams says where each kind of output goes.
type streams struct {
	// progress receives the prompt, preflight warnings and the console report.
	progress *os.File
	// json receives the encoded report, or is nil.
	json io.Writer
}

// selectStreams keeps stdout for the report alone in JSON mode.
func selectStreams(jsonMode bool, stdout, stderr *os.File) streams {
	if jsonMode {
		return streams{progress: stderr, json: stdout}
	}
	return streams{progress: stdout}
}

// questionArgs keeps a question that starts with a command name from
// running that command. The command is chosen only when the rest of the
// words are a valid use of it; otherwise "--" is inserted before the first
// word so the root command receives everything as the question.
func questionArgs(root *cobra.Command, args []string) []string {
	root.InitDefaultHelpCmd()
	cmd, _, err := root.Find(args)
	if err != nil || cmd == root {
		return args
	}

	rootPositional, ok := scanArgs(root, args)
	if !ok || len(rootPositional) == 0 {
		return args
	}
	at := rootPositional[0]

	words, ok := scanArgs(cmd, args[at+1:])
	if ok {
		positional := make([]string, len(words))
		for i, w := range words {
			positional[i] = args[at+1+w]
		}
		if fitsCommand(root, cmd, positional) {
			return args
		}
	}

	out := make([]string, 0, len(args)+1)
	out = append(out, args[:at]...)
	out = append(out, "--")
	return append(out, args[at:]...)
}

func fitsCommand(root, cmd *cobra.Command, positional []string) bool {
	if cmd.Name() == "help" {
		if len(positional) == 0 {
			return true
		}
		target, extra, err := root.Find(positional)
		return err == nil && target != root && len(extra) == 0
	}
	return cmd.ValidateArgs(positional) == nil
}

// scanArgs returns the indices of the positional words in args as cmd
// would parse them. It reports false when a flag is unknown to cmd.
func scanArgs(cmd *cobra.Command, args []string) ([]int, bool) {
	var positional []int
	for i := 0; i < len(args); i++ {
		s := args[i]
		switch {
		case s == "--":
			for j := i + 1; j < len(args); j++ {
				positional = append(positional, j)
			}
			return positional, true
		case strings.HasPrefix(s, "--"):
			name, _, inline := strings.Cut(s[2:], "=")
			if name == "help" {
				continue
			}
			f := cmd.Flags().Lookup(name)
			if f == nil {
				f = cmd.InheritedFlags().Lookup(name)
			}
			if f == nil {
				return nil, false
			}
			if !inline && f.NoOptDefVal == "" {
				i++
			}
		case strings.HasPrefix(s, "-") && len(s) > 1:
			short := s[1:2]
			if short == "h" {
				continue
			}
			f := cmd.Flags().ShorthandLookup(short)
			if f == nil {
				f = cmd.InheritedFlags().ShorthandLookup(short)
			}
			if f == nil {
				return nil, false
			}
			if len(s) == 2 && f.NoOptDefVal == "" {
				i++
			}
		default:
			positional = append(positional, i)
		}
	}
	return positional, true
}

// resolveQuestion joins the arguments into the question, or asks for one
// when there are none.
func resolveQuestion(args []string, ask func() (string, error)) (string, error) {
	if q := strings.TrimSpace(strings.Join(args, " ")); q != "" {
		return q, nil
	}
	if len(args) > 0 {
		return "", nil
	}
	return ask()
}

// runOptions carries everything one council run needs.
type runOptions struct {
	Config   *config.Config
	Querier  agent.Querier
	Question string
	RunID    string
	Logger   *zap.Logger
	// Progress receives the human-readable console output.
	Progress io.Writer
	// JSON, when set, receives the final report as JSON.
	JSON io.Writer
}

// runCouncil runs one question through the council. Running out of
// responses is not an error; the console already explained it.
func runCouncil(ctx context.Context, opts runOptions) error {
	console := report.NewConsole(opts.Progress, report.ConsoleOptions{
		PreviewChars:       opts.Config.Display.PreviewChars,
		ReviewPreviewChars: opts.Config.Display.ReviewPreviewChars,
		NoColor:            !opts.Config.Display.Color,
	})

	reporter := council.ReporterFunc(func(e council.Event) {
		opts.Logger.Debug("council event",
			zap.String("type", string(e.Type)),
			zap.String("stage", string(e.Stage)))
		console.Report(e)
	})

	c, err := council.New(opts.Config.CouncilConfig(), opts.Querier,
		council.WithReporter(reporter),
		council.WithLogger(opts.Logger),
		council.WithRunID(opts.RunID),
	)
	if err != nil {
		return err
	}

	rep, err := c.Run(ctx, opts.Question)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("council run interrupted: %w", ctxErr)
	}
	if err != nil && !errors.Is(err, council.ErrNoResponses) {
		return err
	}

	if opts.JSON != nil {
		if err := report.WriteJSON(opts.JSON, rep); err != nil {
			return err
		}
	}
	return nil
}
