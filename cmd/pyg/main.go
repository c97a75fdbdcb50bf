// pyg highlights source code on the command line.
//
// It is a front end for the pygmentize CLI,
// falling back to a builtin Chroma-based highlighter
// when pygmentize is not installed.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"

	"braces.dev/errtrace"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/9585999/pygments"
	"github.com/9585999/pygments/internal/errdefer"
	"github.com/9585999/pygments/internal/native"
	"github.com/9585999/pygments/internal/sliceutil"
)

func main() {
	cmd := mainCmd{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
	os.Exit(cmd.Run(os.Args[1:]))
}

// mainCmd is the actual entry point to the program.
type mainCmd struct {
	Stdout io.Writer // == os.Stdout
	Stderr io.Writer // == os.Stderr

	log *log.Logger
}

func (cmd *mainCmd) Run(args []string) (exitCode int) {
	cmd.log = log.New(cmd.Stderr, "", 0)

	opts, err := (&cliParser{
		Stdout: cmd.Stdout,
		Stderr: cmd.Stderr,
	}).Parse(args)
	if err != nil {
		// '$cmd -h' should exit with zero.
		if errors.Is(err, errHelp) {
			return 0
		}
		// No need to print anything.
		// Parse prints messages.
		return 1
	}

	if err := cmd.run(opts); err != nil {
		cmd.log.Printf("pyg: %v", err)
		return 1
	}
	return 0
}

// engine is the part of [pygments.CLI]
// that the command needs from a highlighter.
// [native.Engine] provides the same operations in pure Go.
type engine interface {
	Highlight(context.Context, pygments.HighlightRequest) (string, error)
	Stylesheet(context.Context, pygments.StylesheetRequest) (string, error)
	GuessLexer(context.Context, string) (string, error)
	Lexers(context.Context) (pygments.Listing, error)
	Formatters(context.Context) (pygments.Listing, error)
	Styles(context.Context) (pygments.Listing, error)
}

var (
	_ engine = (*pygments.CLI)(nil)
	_ engine = (*native.Engine)(nil)
)

func (cmd *mainCmd) run(opts *params) (err error) {
	ctx := context.Background()

	debugw, closeDebug, err := opts.Debug.Create(cmd.Stderr)
	if err != nil {
		return errtrace.Wrap(err)
	}
	defer func() { err = errors.Join(err, closeDebug()) }()
	debugLog := log.New(debugw, "", 0)

	eng, err := cmd.newEngine(opts, debugLog)
	if err != nil {
		return errtrace.Wrap(err)
	}

	out := cmd.Stdout
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return errtrace.Wrap(err)
		}
		defer errdefer.Close(&err, f)
		out = f
	}

	switch {
	case opts.List != "":
		return errtrace.Wrap(cmd.list(ctx, eng, opts.List, out))
	case opts.Guess != "":
		name, err := eng.GuessLexer(ctx, opts.Guess)
		if err != nil {
			return errtrace.Wrap(err)
		}
		_, err = fmt.Fprintln(out, name)
		return errtrace.Wrap(err)
	case opts.CSS:
		sheet, err := eng.Stylesheet(ctx, pygments.StylesheetRequest{
			Style:    opts.Style,
			Selector: opts.Selector,
		})
		if err != nil {
			return errtrace.Wrap(err)
		}
		_, err = io.WriteString(out, sheet)
		return errtrace.Wrap(err)
	default:
		return errtrace.Wrap(cmd.highlight(ctx, eng, opts, out))
	}
}

// newEngine picks the highlighter implementation for this run.
// With "-engine auto", pygmentize is used if it can be found,
// and the builtin highlighter otherwise.
func (cmd *mainCmd) newEngine(opts *params, debug *log.Logger) (engine, error) {
	switch opts.Engine {
	case "pygmentize":
		return &pygments.CLI{Pygmentize: opts.Exe, Log: debug}, nil
	case "native":
		return new(native.Engine), nil
	case "auto":
		exe := opts.Exe
		if exe == "" {
			exe = pygments.DefaultBin
		}
		if path, err := exec.LookPath(exe); err == nil {
			debug.Printf("using %v", path)
			return &pygments.CLI{Pygmentize: path, Log: debug}, nil
		}
		debug.Printf("%v not found, using builtin highlighter", exe)
		return new(native.Engine), nil
	default:
		return nil, errtrace.Wrap(
			fmt.Errorf("unknown engine %q: valid values are auto, pygmentize, native", opts.Engine))
	}
}

func (cmd *mainCmd) highlight(ctx context.Context, eng engine, opts *params, out io.Writer) error {
	var (
		code []byte
		err  error
	)
	if opts.File == "" || opts.File == "-" {
		code, err = io.ReadAll(os.Stdin)
	} else {
		code, err = os.ReadFile(opts.File)
	}
	if err != nil {
		return errtrace.Wrap(err)
	}

	lexer := opts.Lexer
	if lexer == "" && opts.File != "" && opts.File != "-" {
		// Guessing from the file name beats
		// guessing from the contents.
		lexer, err = eng.GuessLexer(ctx, opts.File)
		if err != nil {
			return errtrace.Wrap(err)
		}
	}

	got, err := eng.Highlight(ctx, pygments.HighlightRequest{
		Code:      string(code),
		Lexer:     lexer,
		Formatter: opts.Formatter,
		Options: sliceutil.Transform(opts.Properties,
			func(p property) pygments.Option { return pygments.Option(p) }),
	})
	if err != nil {
		return errtrace.Wrap(err)
	}

	_, err = io.WriteString(out, got)
	return errtrace.Wrap(err)
}

func (cmd *mainCmd) list(ctx context.Context, eng engine, what string, out io.Writer) error {
	var (
		listing pygments.Listing
		err     error
	)
	switch what {
	case "lexer":
		listing, err = eng.Lexers(ctx)
	case "formatter":
		listing, err = eng.Formatters(ctx)
	case "style":
		listing, err = eng.Styles(ctx)
	default:
		err = fmt.Errorf("unknown category %q: valid values are lexer, formatter, style", what)
	}
	if err != nil {
		return errtrace.Wrap(err)
	}

	names := make([]string, 0, len(listing))
	for name := range listing {
		names = append(names, name)
	}
	collate.New(language.English, collate.IgnoreCase).SortStrings(names)

	for _, name := range names {
		if _, err := fmt.Fprintf(out, "%s\t%s\n", name, listing[name]); err != nil {
			return errtrace.Wrap(err)
		}
	}
	return nil
}
