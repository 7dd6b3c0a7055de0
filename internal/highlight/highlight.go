// Package highlight turns note text into styled token spans using chroma.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/marcus/codenotes/internal/notes"
)

// Span is a run of text sharing one token kind.
type Span struct {
	Kind chroma.TokenType
	Text string
}

// lexerNames maps each highlighted language to its chroma lexer.
// Plaintext is deliberately absent.
var lexerNames = map[notes.Language]string{
	notes.Markdown:   "markdown",
	notes.JavaScript: "javascript",
	notes.TypeScript: "typescript",
	notes.Python:     "python",
	notes.Java:       "java",
	notes.Cpp:        "c++",
	notes.C:          "c",
	notes.HTML:       "html",
	notes.CSS:        "css",
	notes.JSON:       "json",
	notes.SQL:        "sql",
	notes.Bash:       "bash",
}

var tokeniseOptions = &chroma.TokeniseOptions{State: "root"}

// Lexer returns the chroma lexer for lang, or nil when lang is rendered plain.
func Lexer(lang notes.Language) chroma.Lexer {
	name, ok := lexerNames[lang]
	if !ok {
		return nil
	}
	l := lexers.Get(name)
	if l == nil {
		return nil
	}
	return chroma.Coalesce(l)
}

// Supported reports whether lang gets highlighted rather than drawn plain.
func Supported(lang notes.Language) bool {
	return Lexer(lang) != nil
}

// Tokenize splits text into spans for lang. The second result is false when
// lang falls back to plain text, in which case a single plain span is returned.
// Concatenating the spans always reproduces text exactly. Tokenize never panics.
func Tokenize(text string, lang notes.Language) (spans []Span, highlighted bool) {
	lexer := Lexer(lang)
	if lexer == nil {
		return plain(text), false
	}

	defer func() {
		if r := recover(); r != nil {
			spans, highlighted = plain(text), false
		}
	}()

	it, err := lexer.Tokenise(tokeniseOptions, text)
	if err != nil {
		return plain(text), false
	}
	spans, ok := reconcile(it.Tokens(), text)
	if !ok {
		return plain(text), false
	}
	return spans, true
}

func plain(text string) []Span {
	if text == "" {
		return nil
	}
	return []Span{{Kind: chroma.Text, Text: text}}
}

// reconcile converts tokens to spans and undoes the trailing newline some
// lexers append, so spans line up byte for byte with text.
func reconcile(tokens []chroma.Token, text string) ([]Span, bool) {
	spans := make([]Span, 0, len(tokens))
	var b strings.Builder
	for _, tok := range tokens {
		if tok.Value == "" {
			continue
		}
		spans = append(spans, Span{Kind: tok.Type, Text: tok.Value})
		b.WriteString(tok.Value)
	}

	got := b.String()
	if got == text {
		return spans, true
	}
	if got != text+"\n" || len(spans) == 0 {
		return nil, false
	}
	last := &spans[len(spans)-1]
	last.Text = strings.TrimSuffix(last.Text, "\n")
	if last.Text == "" {
		spans = spans[:len(spans)-1]
	}
	return spans, true
}

// SplitLines splits spans at newlines. The result always has one entry per
// line of the underlying text, so an empty document has one empty line.
func SplitLines(spans []Span) [][]Span {
	lines := [][]Span{nil}
	for _, sp := range spans {
		parts := strings.Split(sp.Text, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part != "" {
				cur := len(lines) - 1
				lines[cur] = append(lines[cur], Span{Kind: sp.Kind, Text: part})
			}
		}
	}
	return lines
}
