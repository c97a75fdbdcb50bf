// Package native implements the pygmentize operations in pure Go
// on top of the Chroma highlighting library.
//
// It exists so that callers have a working highlighter
// on systems where pygmentize is not installed.
// Output is Chroma's, not Pygments':
// the two agree on the general shape (HTML spans, ANSI colors)
// but not byte-for-byte.
package native

import (
	"context"
	"fmt"
	"strings"

	"braces.dev/errtrace"
	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/9585999/pygments"
)

// DefaultFormatter is used when a request doesn't name a formatter.
// Matches pygmentize, which renders for the terminal by default.
const DefaultFormatter = "terminal"

// Engine highlights code with Chroma,
// mirroring the operations of [pygments.CLI].
//
// The zero value is ready to use.
// An Engine holds no state, so a single value
// may be shared between goroutines freely.
type Engine struct{}

// Highlight highlights a block of source code.
//
// Pygments formatter options ("-P") have no Chroma equivalent
// and are ignored, with one exception:
// an option named "style" selects the Chroma style to render with.
func (*Engine) Highlight(_ context.Context, req pygments.HighlightRequest) (string, error) {
	lexer := lexers.Get(req.Lexer)
	if req.Lexer == "" {
		lexer = lexers.Analyse(req.Code)
	}
	if lexer == nil {
		if req.Lexer != "" {
			return "", errtrace.Wrap(fmt.Errorf("no lexer for alias %q found", req.Lexer))
		}
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	name := req.Formatter
	if name == "" {
		name = DefaultFormatter
	}
	formatter := formatters.Registry[name]
	if formatter == nil {
		return "", errtrace.Wrap(fmt.Errorf("no formatter found for name %q", name))
	}

	style := styles.Fallback
	for _, opt := range req.Options {
		if opt.Name == "style" {
			if s, ok := styles.Registry[opt.Value]; ok {
				style = s
			}
		}
	}

	it, err := lexer.Tokenise(nil, req.Code)
	if err != nil {
		return "", errtrace.Wrap(err)
	}

	var sb strings.Builder
	if err := formatter.Format(&sb, style, it); err != nil {
		return "", errtrace.Wrap(err)
	}
	return sb.String(), nil
}

// Stylesheet returns the CSS for Chroma's HTML formatter
// under the requested style.
func (*Engine) Stylesheet(_ context.Context, req pygments.StylesheetRequest) (string, error) {
	name := req.Style
	if name == "" {
		name = "default"
	}
	style, ok := styles.Registry[name]
	if !ok {
		// Chroma has no style actually named "default";
		// map it to the fallback so that the pygmentize default
		// works here too.
		if name != "default" {
			return "", errtrace.Wrap(fmt.Errorf("no style found for name %q", name))
		}
		style = styles.Fallback
	}

	var sb strings.Builder
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&sb, style); err != nil {
		return "", errtrace.Wrap(err)
	}

	css := sb.String()
	if req.Selector != "" {
		css = prefixSelector(css, req.Selector)
	}
	return css, nil
}

// prefixSelector prepends sel to the selector of every rule in css.
// WriteCSS emits one rule per line,
// optionally preceded by a comment naming the token type.
func prefixSelector(css, sel string) string {
	lines := strings.Split(css, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "/*"):
			if idx := strings.Index(line, "*/ "); idx >= 0 {
				lines[i] = line[:idx+3] + sel + " " + line[idx+3:]
			}
		case strings.HasPrefix(line, "."):
			lines[i] = sel + " " + line
		}
	}
	return strings.Join(lines, "\n")
}

// GuessLexer reports the name of the lexer
// that Chroma would pick for a file with the given name.
// The file does not have to exist;
// the guess is made from the name alone.
// Returns "text" if nothing matches.
func (*Engine) GuessLexer(_ context.Context, filename string) (string, error) {
	lexer := lexers.Match(filename)
	if lexer == nil {
		return "text", nil
	}
	return lexerAlias(lexer.Config()), nil
}

// lexerAlias picks the name a lexer goes by on the command line:
// its first alias, or its lowercased display name.
func lexerAlias(cfg *chroma.Config) string {
	if len(cfg.Aliases) > 0 {
		return cfg.Aliases[0]
	}
	return strings.ToLower(cfg.Name)
}

// Lexers enumerates the lexers in Chroma's registry,
// keyed by every alias each lexer goes by,
// with the lexer's display name as the description.
func (*Engine) Lexers(context.Context) (pygments.Listing, error) {
	l := make(pygments.Listing)
	for _, lexer := range lexers.GlobalLexerRegistry.Lexers {
		cfg := lexer.Config()
		names := cfg.Aliases
		if len(names) == 0 {
			names = []string{strings.ToLower(cfg.Name)}
		}
		for _, name := range names {
			l[name] = cfg.Name
		}
	}
	return l, nil
}

// Descriptions for the formatters Chroma ships with.
var _formatterDescs = map[string]string{
	"html":        "Format tokens as HTML",
	"json":        "Format tokens as a JSON structure",
	"noop":        "Emit tokens unchanged",
	"svg":         "Format tokens as an SVG image",
	"terminal":    "Format for ANSI terminals (8 colors)",
	"terminal8":   "Format for ANSI terminals (8 colors)",
	"terminal16":  "Format for ANSI terminals (16 colors)",
	"terminal256": "Format for ANSI terminals (256 colors)",
	"terminal16m": "Format for ANSI terminals (24-bit color)",
	"tokens":      "Dump the raw token stream",
}

// Formatters enumerates the output formatters in Chroma's registry.
func (*Engine) Formatters(context.Context) (pygments.Listing, error) {
	l := make(pygments.Listing)
	for name := range formatters.Registry {
		desc, ok := _formatterDescs[name]
		if !ok {
			desc = "Chroma formatter"
		}
		l[name] = desc
	}
	return l, nil
}

// Styles enumerates the color styles in Chroma's registry.
func (*Engine) Styles(context.Context) (pygments.Listing, error) {
	l := make(pygments.Listing)
	for _, name := range styles.Names() {
		l[name] = "Chroma style"
	}
	return l, nil
}
