// Package argline splits raw argument text into positional and keyword
// entries. Quoting with ' or " keeps whitespace and '=' literal, and a
// backslash inside quotes escapes the next character.
package argline

import (
	"strings"

	"github.com/funvibe/sigbind/internal/config"
	"github.com/funvibe/sigbind/internal/diagnostics"
)

// Entry is one whitespace-delimited unit of an argument line. Eq is the
// index in Text of the first '=' that appeared outside quotes, or -1.
// Quoting an '=' makes it part of the value.
type Entry struct {
	Text string
	Eq   int
}

// FromArgs wraps an already-tokenized argument vector (e.g. os.Args style)
// so it can be fed to Extract. Quote processing is assumed to have been
// done by the caller's shell.
func FromArgs(args []string) []Entry {
	entries := make([]Entry, len(args))
	for i, a := range args {
		entries[i] = Entry{Text: a, Eq: strings.Index(a, config.EqualitySpecifier)}
	}
	return entries
}

// Split cuts line on whitespace outside of quoted regions. An unterminated
// quote is an error.
func Split(line string) ([]Entry, error) {
	var entries []Entry
	var sb strings.Builder
	eq := -1
	started := false
	var quote rune // 0 = outside quotes
	escaped := false

	flush := func() {
		if !started {
			return
		}
		entries = append(entries, Entry{Text: sb.String(), Eq: eq})
		sb.Reset()
		eq = -1
		started = false
	}

	for _, ch := range line {
		if quote != 0 {
			if escaped {
				sb.WriteRune(ch)
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				escaped = true
			case quote:
				quote = 0
			default:
				sb.WriteRune(ch)
			}
			continue
		}

		switch {
		case ch == '\'' || ch == '"':
			quote = ch
			started = true
		case ch == ' ' || ch == '\t':
			flush()
		default:
			if ch == '=' && eq < 0 {
				eq = sb.Len()
			}
			started = true
			sb.WriteRune(ch)
		}
	}

	if quote != 0 {
		return nil, diagnostics.Newf(diagnostics.ErrR001,
			"quoted with %c but never closed", quote)
	}
	flush()

	return entries, nil
}

// Extract separates entries into positionals and keyword arguments.
// All three spellings bind: "key=value", "key= value" and "key = value".
// A '=' at the start of an entry keeps it positional.
func Extract(entries []Entry) ([]string, map[string]string, error) {
	positionals := []string{}
	kwargs := make(map[string]string)

	pendingKey := ""
	pendingActive := false

	put := func(key, value string) error {
		if _, dup := kwargs[key]; dup {
			return diagnostics.Newf(diagnostics.ErrB004,
				"keyword %q was given more than once", key)
		}
		kwargs[key] = value
		return nil
	}

	for _, e := range entries {
		if pendingActive {
			if err := put(pendingKey, e.Text); err != nil {
				return nil, nil, err
			}
			pendingActive = false
			continue
		}

		switch {
		case e.Eq < 0 || e.Eq == 0 && len(e.Text) > 1:
			// No unquoted '=', or one that starts the entry: positional.
			positionals = append(positionals, e.Text)

		case e.Text == config.EqualitySpecifier:
			// Bare '=': the previous positional was actually a key.
			if len(positionals) == 0 {
				positionals = append(positionals, e.Text)
				continue
			}
			pendingKey = positionals[len(positionals)-1]
			positionals = positionals[:len(positionals)-1]
			pendingActive = true

		case e.Eq == len(e.Text)-1:
			// Trailing '=': the value is the next entry.
			pendingKey = e.Text[:e.Eq]
			pendingActive = true

		default:
			if err := put(e.Text[:e.Eq], e.Text[e.Eq+1:]); err != nil {
				return nil, nil, err
			}
		}
	}

	if pendingActive {
		return nil, nil, diagnostics.Newf(diagnostics.ErrR005,
			"keyword %q was not given a value", pendingKey)
	}

	return positionals, kwargs, nil
}

// Fields is Split followed by Extract, for whole input lines.
func Fields(line string) ([]string, map[string]string, error) {
	entries, err := Split(line)
	if err != nil {
		return nil, nil, err
	}
	return Extract(entries)
}
