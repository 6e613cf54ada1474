package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/logwindow/internal/config"
	"github.com/hyperifyio/logwindow/internal/report"
)

// errInvalidConfig wraps validation failures so main can map them to exit code 2.
var errInvalidConfig = errors.New("invalid configuration")

type options struct {
	cfg         config.Config
	strip       bool
	printConfig bool
}

func main() {
	// Logging setup
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Environment supplies defaults; explicit flags win.
	cfg := config.ApplyEnvOverrides(config.Default())

	var (
		phrase      string
		before      int
		after       int
		tailLines   int
		noStrip     bool
		printConfig bool
		verbose     bool
	)
	flag.StringVar(&phrase, "phrase", cfg.Grep.Phrase, "Phrase marking the line of interest (case-insensitive, literal)")
	flag.IntVar(&before, "before", cfg.Grep.Before, "Maximum lines of context above the match")
	flag.IntVar(&after, "after", cfg.Grep.After, "Maximum lines of context below the match")
	flag.IntVar(&tailLines, "tail", cfg.Grep.Tail, "Number of trailing output lines to show")
	flag.BoolVar(&noStrip, "no-strip", false, "Keep terminal colour escapes in the output")
	flag.BoolVar(&printConfig, "print-config", false, "Print the effective configuration as YAML and exit")
	flag.BoolVar(&verbose, "v", false, "Verbose logging")
	flag.Parse()

	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	cfg.Grep.Phrase = phrase
	cfg.Grep.Before = before
	cfg.Grep.After = after
	cfg.Grep.Tail = tailLines

	opts := options{cfg: cfg, strip: !noStrip, printConfig: printConfig}
	if err := run(opts, os.Stdin, os.Stdout); err != nil {
		log.Error().Err(err).Msg("run failed")
		if errors.Is(err, errInvalidConfig) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(opts options, in io.Reader, out io.Writer) error {
	if err := config.Validate(opts.cfg); err != nil {
		return fmt.Errorf("%w: %v", errInvalidConfig, err)
	}
	if opts.printConfig {
		b, err := opts.cfg.YAML()
		if err != nil {
			return err
		}
		_, err = out.Write(b)
		return err
	}

	b, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	ro := report.OptionsFromConfig(opts.cfg)
	ro.Strip = opts.strip

	start := time.Now()
	s := report.Summarize(string(b), ro)
	s.Log(log.Logger)
	log.Debug().Int("bytes", len(b)).Dur("elapsed", time.Since(start)).Msg("input processed")

	_, err = io.WriteString(out, s.String())
	return err
}
