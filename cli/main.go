package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ytexport"
	"ytexport/config"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7FDBFF"))
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5F87"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A6ADC8"))
	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00F5D4"))
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args, os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app := newApp(ctx)
	app.Reader = stdin
	app.Writer = stdout
	app.ErrWriter = stderr

	if err := app.Run(args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			if msg := exitErr.Error(); msg != "" {
				fmt.Fprintln(stderr, msg)
			}
			return exitErr.ExitCode()
		}
		fmt.Fprintln(stderr, errorStyle.Render("Error:"), err)
		return 1
	}
	return 0
}

func newApp(ctx context.Context) *cli.App {
	return &cli.App{
		Name:      "ytexport",
		Usage:     "export the videos of a YouTube channel or playlist to JSON",
		ArgsUsage: "[channel-or-playlist]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "YouTube Data API v3 `KEY`",
				EnvVars: []string{"YTEXPORT_API_KEY"},
			},
			&cli.StringFlag{
				Name:  "out-dir",
				Usage: "write the JSON file into `DIR` (default: next to the executable)",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "load configuration from `FILE`",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log `LEVEL` (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:  "no-progress",
				Usage: "do not draw a progress bar while collecting videos",
			},
		},
		Action: func(c *cli.Context) error {
			return export(ctx, c)
		},
		HideHelpCommand: true,
		// Exit codes are handled by run.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if key := c.String("api-key"); key != "" {
		cfg.APIKey = key
	}
	if c.IsSet("out-dir") {
		cfg.OutputDir = c.String("out-dir")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.Bool("no-progress") {
		cfg.ShowProgress = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level zapcore.Level) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zcfg.Build()
}

func export(ctx context.Context, c *cli.Context) error {
	out := c.App.Writer

	cfg, err := loadConfig(c)
	if err != nil {
		return cli.Exit(fmt.Sprintf("%s %v", errorStyle.Render("Configuration error:"), err), 1)
	}

	logger, err := newLogger(cfg.Level())
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logger.Sync()
	undoGlobals := zap.ReplaceGlobals(logger)
	defer undoGlobals()
	undoStdLog := zap.RedirectStdLog(logger)
	defer undoStdLog()

	fmt.Fprintln(out, titleStyle.Render("YouTube channel export"))

	p := newPrompter(c.App.Reader, out)
	if cfg.APIKey == "" {
		cfg.APIKey, err = p.ask("Enter your YouTube Data API key: ")
		if err != nil {
			return err
		}
		if cfg.APIKey == "" {
			return cli.Exit(errorStyle.Render("An API key is required to use the YouTube Data API."), 1)
		}
	}

	input := c.Args().First()
	if input == "" {
		input, err = p.ask("Enter a channel ID, playlist ID, @handle or YouTube URL: ")
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout.Duration())
	defer cancel()

	exporter, err := ytexport.New(ctx, cfg)
	if err != nil {
		return cli.Exit(fmt.Sprintf("%s %v", errorStyle.Render("Error:"), err), 1)
	}

	var bar *progress
	if cfg.ShowProgress {
		bar = newProgress(c.App.ErrWriter)
		exporter.Progress = bar.Update
	}

	result, err := exporter.Export(ctx, input)
	bar.Finish()
	if err != nil {
		var lookupErr *ytexport.LookupError
		if errors.As(err, &lookupErr) {
			return cli.Exit(errorStyle.Render(lookupErr.Message), 1)
		}
		return cli.Exit(fmt.Sprintf("%s %v\n%s", errorStyle.Render("Error:"), err,
			hintStyle.Render("Please check your API key and try again.")), 1)
	}

	fmt.Fprintf(out, "%s %d videos written to %s\n",
		successStyle.Render("Done:"), len(result.Document.Videos), result.Path)
	return nil
}
