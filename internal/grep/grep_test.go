package grep

import (
	"strings"
	"testing"
	"testing/quick"
)

func TestFindContext_WindowAroundMatch(t *testing.T) {
	text := "line1\nline2\nMATCH\nline4\nline5"
	got, ok := FindContext(text, "match", 1, 1)
	if !ok {
		t.Fatalf("expected a match")
	}
	if got != "line2\nMATCH\nline4" {
		t.Fatalf("unexpected window: %q", got)
	}
}

func TestFindContext_CaseInsensitive(t *testing.T) {
	got, ok := FindContext("Hello World", "hello", 0, 0)
	if !ok || got != "Hello World" {
		t.Fatalf("got %q, %v; want \"Hello World\", true", got, ok)
	}
	// Folding is Unicode-aware and independent of the process locale.
	if _, ok := FindContext("Installation: ÉCHEC", "échec", 0, 0); !ok {
		t.Fatalf("expected folded match for non-ASCII letters")
	}
}

func TestFindContext_NotFound(t *testing.T) {
	if got, ok := FindContext("alpha\nbeta\ngamma", "delta", 2, 2); ok || got != "" {
		t.Fatalf("expected absence, got %q, %v", got, ok)
	}
	if _, ok := FindContext("", "anything", 0, 0); ok {
		t.Fatalf("expected absence for empty text")
	}
}

// Matches on an empty line are present but empty, which callers must be able
// to tell apart from absence.
func TestFindContext_EmptyMatchIsNotAbsence(t *testing.T) {
	got, ok := FindContext("x", "", 0, 0)
	if !ok || got != "x" {
		t.Fatalf("empty phrase should match the first line, got %q, %v", got, ok)
	}
}

func TestFindContext_FirstOccurrenceWins(t *testing.T) {
	text := "a\nerror one\nb\nc\nerror two\nd"
	got, ok := FindContext(text, "ERROR", 0, 0)
	if !ok || got != "error one" {
		t.Fatalf("expected first occurrence, got %q", got)
	}
}

func TestFindContext_ClipsAtDocumentStart(t *testing.T) {
	got, ok := FindContext("hit\nb\nc\nd", "hit", 5, 1)
	if !ok || got != "hit\nb" {
		t.Fatalf("got %q", got)
	}
}

func TestFindContext_ShortRemainderRunsToEnd(t *testing.T) {
	text := "a\nb\nhit\nc"
	// One line remains after the match; asking for three takes it all.
	got, ok := FindContext(text, "hit", 0, 3)
	if !ok || got != "hit\nc" {
		t.Fatalf("got %q", got)
	}
	// Remainder exactly equal to after (match plus one line, after=2).
	got, ok = FindContext(text, "hit", 1, 2)
	if !ok || got != "b\nhit\nc" {
		t.Fatalf("got %q", got)
	}
}

func TestFindContext_TrimsInputAndTrailingOutput(t *testing.T) {
	text := "\n\n   first\nsecond  \n  third\n\n"
	got, ok := FindContext(text, "second", 0, 0)
	if !ok || got != "second" {
		t.Fatalf("trailing whitespace should be trimmed, got %q", got)
	}
	got, ok = FindContext(text, "third", 1, 0)
	if !ok || got != "second  \n  third" {
		t.Fatalf("internal whitespace must be preserved, got %q", got)
	}
}

func TestFindContext_PreservesCRLF(t *testing.T) {
	got, ok := FindContext("a\r\nb\r\nc\r\nd", "b", 1, 1)
	if !ok || got != "a\r\nb\r\nc" {
		t.Fatalf("got %q", got)
	}
}

func TestFindContext_HugeCountsDoNotOverflow(t *testing.T) {
	const maxInt = int(^uint(0) >> 1)
	got, ok := FindContext("a\nb\nc", "b", maxInt, maxInt)
	if !ok || got != "a\nb\nc" {
		t.Fatalf("got %q", got)
	}
}

// Negative counts are a caller bug and fail fast.
func TestFindContext_PanicsOnNegativeCounts(t *testing.T) {
	for _, c := range []struct{ before, after int }{{-1, 0}, {0, -1}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("expected panic for before=%d after=%d", c.before, c.after)
				}
			}()
			FindContext("a", "a", c.before, c.after)
		}()
	}
}

func TestFindContext_WindowProperty(t *testing.T) {
	lines := []string{"l0", "l1", "l2", "needle", "l4", "l5", "l6", "l7"}
	text := strings.Join(lines, "\n")
	for before := 0; before < 6; before++ {
		for after := 0; after < 7; after++ {
			got, ok := FindContext(text, "NEEDLE", before, after)
			if !ok {
				t.Fatalf("before=%d after=%d: no match", before, after)
			}
			window := strings.Split(got, "\n")
			if len(window) > before+after+1 {
				t.Fatalf("before=%d after=%d: window too large: %q", before, after, got)
			}
			lo := 3 - before
			if lo < 0 {
				lo = 0
			}
			hi := 3 + after + 1
			if hi > len(lines) {
				hi = len(lines)
			}
			want := strings.Join(lines[lo:hi], "\n")
			if got != want {
				t.Fatalf("before=%d after=%d: got %q want %q", before, after, got, want)
			}
		}
	}
}

func TestTail(t *testing.T) {
	if got := Tail("a\nb\nc\nd", 2); got != "c\nd" {
		t.Fatalf("got %q", got)
	}
	if got := Tail("  a\nb  \n", 5); got != "a\nb" {
		t.Fatalf("short text should come back trimmed, got %q", got)
	}
	if got := Tail("a\nb", 0); got != "" {
		t.Fatalf("n=0 should be empty, got %q", got)
	}
	if got := Tail("", 3); got != "" {
		t.Fatalf("empty text, got %q", got)
	}
}

func TestTail_KeepsTerminators(t *testing.T) {
	if got := Tail("a\r\nb\r\nc", 2); got != "b\r\nc" {
		t.Fatalf("got %q", got)
	}
}

func TestTail_LineCountProperty(t *testing.T) {
	text := "one\ntwo\nthree\nfour\nfive"
	all := strings.Split(text, "\n")
	for n := 0; n <= 7; n++ {
		got := Tail(text, n)
		want := n
		if want > len(all) {
			want = len(all)
		}
		if want == 0 {
			if got != "" {
				t.Fatalf("n=%d: got %q", n, got)
			}
			continue
		}
		if got != strings.Join(all[len(all)-want:], "\n") {
			t.Fatalf("n=%d: got %q", n, got)
		}
	}
}

func TestTail_PanicsOnNegative(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Tail("a", -1)
}

func TestStripMarkup(t *testing.T) {
	if got := StripMarkup("\x1b[0;36mcolored\x1b[0m"); got != "colored" {
		t.Fatalf("got %q", got)
	}
	in := "notice: \x1b[1;31mError\x1b[0m in \x1b[mstep\x1b[12345m\t\x07done"
	want := "notice: Error in \x1b[mstep\x1b[12345m\t\x07done"
	if got := StripMarkup(in); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if got := StripMarkup("plain text"); got != "plain text" {
		t.Fatalf("got %q", got)
	}
}

func TestStripMarkup_Idempotent(t *testing.T) {
	nested := "\x1b[\x1b[0m0mred"
	if got := StripMarkup(nested); got != "red" {
		t.Fatalf("nested escapes should be removed, got %q", got)
	}
	f := func(s string) bool {
		once := StripMarkup(s)
		return StripMarkup(once) == once
	}
	if err := quick.Check(f, nil); err != nil {
		t.Fatal(err)
	}
}

func TestFilterMarkup(t *testing.T) {
	if FilterMarkup(nil) != nil {
		t.Fatalf("nil should propagate")
	}
	in := "\x1b[0;32mok\x1b[0m"
	got := FilterMarkup(&in)
	if got == nil || *got != "ok" {
		t.Fatalf("got %v", got)
	}
	if in != "\x1b[0;32mok\x1b[0m" {
		t.Fatalf("input must not be modified")
	}
}

func TestSplitLines(t *testing.T) {
	cases := map[string][]string{
		"":          nil,
		"a":         {"a"},
		"a\n":       {"a\n"},
		"a\nb":      {"a\n", "b"},
		"a\r\nb\rc": {"a\r\n", "b\r", "c"},
		"\n\n":      {"\n", "\n"},
	}
	for in, want := range cases {
		got := SplitLines(in)
		if strings.Join(got, "|") != strings.Join(want, "|") || len(got) != len(want) {
			t.Fatalf("SplitLines(%q) = %q, want %q", in, got, want)
		}
	}
}
