// Package pygments provides access to the pygmentize CLI,
// the command line client for the Pygments syntax highlighter.
//
// All operations spawn one pygmentize process, block until it exits,
// and surface its output unchanged.
// Whatever pygmentize writes to stderr is available on the returned
// [ExecError] when the process fails.
package pygments

import (
	"bytes"
	"context"
	"io"
	"log"
	"os/exec"
	"strings"

	"braces.dev/errtrace"
	"github.com/9585999/pygments/internal/linebuf"
)

// DefaultBin is the executable name used
// when [CLI] isn't given an explicit path.
const DefaultBin = "pygmentize"

// CLI is a handle to the pygmentize CLI.
//
// The zero value is ready to use and resolves "pygmentize" from $PATH.
// A CLI holds no mutable state, so a single value
// may be shared between goroutines freely.
type CLI struct {
	// Pygmentize is the path to the pygmentize executable.
	// If unset, we'll search $PATH.
	Pygmentize string

	// Log receives pygmentize's stderr output line by line
	// as the process runs.
	// Stderr is still captured for error reporting.
	Log *log.Logger
}

// Option is a single "-P name=value" formatter option
// passed through to pygmentize.
type Option struct {
	Name  string
	Value string
}

func (o Option) String() string {
	return o.Name + "=" + o.Value
}

// HighlightRequest is a request to highlight a block of source code.
type HighlightRequest struct {
	// Code is the source code to highlight.
	// It is fed to pygmentize on stdin.
	Code string

	// Lexer is the name of the lexer to tokenize Code with.
	// If unset, pygmentize guesses one from the code itself ("-g").
	Lexer string

	// Formatter is the name of the output formatter.
	// If unset, pygmentize picks its own default.
	Formatter string

	// Options holds formatter options, passed as "-P name=value".
	// They reach pygmentize in slice order.
	Options []Option
}

// Highlight highlights a block of source code,
// returning whatever the configured formatter produced.
func (c *CLI) Highlight(ctx context.Context, req HighlightRequest) (string, error) {
	args := make([]string, 0, 4+2*len(req.Options))
	if req.Lexer != "" {
		args = append(args, "-l", req.Lexer)
	} else {
		args = append(args, "-g")
	}
	if req.Formatter != "" {
		args = append(args, "-f", req.Formatter)
	}
	for _, opt := range req.Options {
		args = append(args, "-P", opt.String())
	}

	out, err := c.run(ctx, strings.NewReader(req.Code), args)
	return out, errtrace.Wrap(err)
}

// StylesheetRequest is a request for a CSS stylesheet
// matching the HTML formatter's output.
type StylesheetRequest struct {
	// Style is the name of the color style.
	// Defaults to "default".
	Style string

	// Selector, if set, is a CSS selector
	// prefixed to every rule in the stylesheet ("-a").
	Selector string
}

// Stylesheet returns the CSS for the HTML formatter
// under the requested style.
func (c *CLI) Stylesheet(ctx context.Context, req StylesheetRequest) (string, error) {
	style := req.Style
	if style == "" {
		style = "default"
	}

	args := []string{"-f", "html", "-S", style}
	if req.Selector != "" {
		args = append(args, "-a", req.Selector)
	}

	out, err := c.run(ctx, nil, args)
	return out, errtrace.Wrap(err)
}

// GuessLexer reports the name of the lexer
// that pygmentize would pick for a file with the given name.
// The file does not have to exist;
// the guess is made from the name alone.
func (c *CLI) GuessLexer(ctx context.Context, filename string) (string, error) {
	out, err := c.run(ctx, nil, []string{"-N", filename})
	if err != nil {
		return "", errtrace.Wrap(err)
	}
	return strings.TrimSpace(out), nil
}

// Lexers enumerates the lexers known to pygmentize,
// keyed by lexer name with a short description for each.
func (c *CLI) Lexers(ctx context.Context) (Listing, error) {
	return errtrace.Wrap2(c.list(ctx, "lexer"))
}

// Formatters enumerates the output formatters known to pygmentize.
func (c *CLI) Formatters(ctx context.Context) (Listing, error) {
	return errtrace.Wrap2(c.list(ctx, "formatter"))
}

// Styles enumerates the color styles known to pygmentize.
func (c *CLI) Styles(ctx context.Context) (Listing, error) {
	return errtrace.Wrap2(c.list(ctx, "style"))
}

func (c *CLI) list(ctx context.Context, what string) (Listing, error) {
	out, err := c.run(ctx, nil, []string{"-L", what})
	if err != nil {
		return nil, errtrace.Wrap(err)
	}
	return parseListing(out), nil
}

// run spawns a single pygmentize process with the given arguments,
// feeding it stdin if non-nil, and blocks until it exits.
// Returns captured stdout on success
// and an [ExecError] with captured stderr otherwise.
func (c *CLI) run(ctx context.Context, stdin io.Reader, args []string) (string, error) {
	exe := c.Pygmentize
	if exe == "" {
		exe = DefaultBin
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if c.Log != nil {
		logw, done := linebuf.Writer(func(line []byte) {
			c.Log.Printf("%s", bytes.TrimSuffix(line, []byte{'\n'}))
		})
		defer done()
		cmd.Stderr = io.MultiWriter(&stderr, logw)
	}

	if err := cmd.Run(); err != nil {
		return "", errtrace.Wrap(&ExecError{
			Stderr: stderr.String(),
			Err:    err,
		})
	}

	return stdout.String(), nil
}
