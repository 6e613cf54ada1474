package report

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hyperifyio/logwindow/internal/config"
	"github.com/hyperifyio/logwindow/internal/grep"
)

// Options control how captured output is summarized.
type Options struct {
	// Phrase marks the line of interest, typically an error keyword.
	Phrase string
	// Before and After bound the context window around the phrase.
	Before int
	After  int
	// TailLines is how many trailing lines to keep regardless of a match.
	TailLines int
	// Strip removes terminal colour escapes before searching.
	Strip bool
}

// OptionsFromConfig builds Options from the grep section of cfg.
// Markup stripping is enabled since agent output is usually coloured.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Phrase:    cfg.Grep.Phrase,
		Before:    cfg.Grep.Before,
		After:     cfg.Grep.After,
		TailLines: cfg.Grep.Tail,
		Strip:     true,
	}
}

// Summary is the condensed form of one command's output.
type Summary struct {
	Phrase  string
	Lines   int
	Tail    string
	Context string
	Found   bool
}

// Summarize condenses output into its last lines and, when the phrase is
// present, the window of lines around its first occurrence. Option counts
// must not be negative.
func Summarize(output string, opts Options) Summary {
	if opts.Strip {
		output = grep.StripMarkup(output)
	}
	s := Summary{
		Phrase: opts.Phrase,
		Lines:  len(grep.SplitLines(strings.TrimSpace(output))),
		Tail:   grep.Tail(output, opts.TailLines),
	}
	if opts.Phrase != "" {
		s.Context, s.Found = grep.FindContext(output, opts.Phrase, opts.Before, opts.After)
	}
	return s
}

// String renders the summary for a terminal or a command report.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "lines: %d\n", s.Lines)
	if s.Phrase != "" {
		if s.Found {
			fmt.Fprintf(&b, "--- context for %q ---\n%s\n", s.Phrase, s.Context)
		} else {
			fmt.Fprintf(&b, "--- no match for %q ---\n", s.Phrase)
		}
	}
	fmt.Fprintf(&b, "--- last lines ---\n%s\n", s.Tail)
	return b.String()
}

// Log emits the summary as a single debug event.
func (s Summary) Log(logger zerolog.Logger) {
	logger.Debug().
		Str("phrase", s.Phrase).
		Int("lines", s.Lines).
		Bool("found", s.Found).
		Int("context_chars", len(s.Context)).
		Int("tail_chars", len(s.Tail)).
		Msg("output summarized")
}
