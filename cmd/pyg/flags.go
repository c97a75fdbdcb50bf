package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"braces.dev/errtrace"
	"github.com/peterbourgon/ff/v3"

	"github.com/9585999/pygments/internal/flagvalue"
)

var (
	errHelp             = flag.ErrHelp
	errInvalidArguments = errors.New("invalid arguments")
)

// params holds all arguments for pyg.
type params struct {
	version bool
	help    Help

	Lexer      string
	Formatter  string
	Properties []property

	CSS      bool
	Style    string
	Selector string

	Guess string
	List  string

	Output string
	Engine string
	Exe    string
	Config string
	Debug  flagvalue.FileSwitch

	// File is the file to highlight.
	// Empty or "-" reads stdin.
	File string
}

// cliParser parses the command line arguments for pyg.
type cliParser struct {
	Stdout io.Writer
	Stderr io.Writer
}

func (cmd *cliParser) newFlagSet() (*params, *flag.FlagSet) {
	fset := flag.NewFlagSet("pyg", flag.ContinueOnError)
	fset.SetOutput(cmd.Stderr)
	fset.Usage = func() {
		DefaultHelp.Write(cmd.Stderr)
	}

	var p params

	// Highlighting:
	fset.StringVar(&p.Lexer, "l", "", "")
	fset.StringVar(&p.Formatter, "f", "", "")
	fset.Var(flagvalue.ListOf(&p.Properties), "P", "")

	// Stylesheets:
	fset.BoolVar(&p.CSS, "css", false, "")
	fset.StringVar(&p.Style, "S", "default", "")
	fset.StringVar(&p.Selector, "a", "", "")

	// Introspection:
	fset.StringVar(&p.Guess, "N", "", "")
	fset.StringVar(&p.List, "L", "", "")

	// Program-level:
	fset.StringVar(&p.Output, "o", "", "")
	fset.StringVar(&p.Engine, "engine", "auto", "")
	fset.StringVar(&p.Exe, "exe", "", "")
	fset.StringVar(&p.Config, "config", "", "")
	fset.Var(&p.Debug, "debug", "")
	fset.BoolVar(&p.version, "version", false, "")
	fset.Var(&p.help, "help", "")
	fset.Var(&p.help, "h", "")

	return &p, fset
}

func (cmd *cliParser) Parse(args []string) (*params, error) {
	p, fset := cmd.newFlagSet()
	if err := ff.Parse(fset, args,
		ff.WithConfigFileFlag("config"),
		ff.WithConfigFileParser(ff.PlainParser),
	); err != nil {
		return nil, errtrace.Wrap(err)
	}
	args = fset.Args()

	if p.version {
		fmt.Fprintln(cmd.Stdout, "pyg", _version)
		return nil, errHelp
	}

	if p.help == DefaultHelp && len(args) > 0 {
		// The user might have done "-h foo"
		// instead of "-h=foo".
		// If the argument is a known help topic,
		// take it.
		var h Help
		if err := h.Set(args[0]); err == nil {
			p.help = h
		}
	}

	switch p.help {
	case NoHelp:
		// proceed as usual
	default:
		if err := p.help.Write(cmd.Stderr); err != nil {
			fmt.Fprintln(cmd.Stderr, err)
		}
		return nil, errHelp
	}

	switch len(args) {
	case 0:
		// stdin
	case 1:
		p.File = args[0]
	default:
		fmt.Fprintln(cmd.Stderr, "Please provide at most one file.")
		UsageHelp.Write(cmd.Stderr)
		return nil, errtrace.Wrap(errInvalidArguments)
	}

	return p, nil
}

// property is a single "-P name=value" argument.
type property struct {
	Name  string
	Value string
}

var _ flag.Getter = (*property)(nil)

func (p *property) Get() any { return *p }

func (p *property) String() string {
	return fmt.Sprintf("%s=%s", p.Name, p.Value)
}

func (p *property) Set(s string) error {
	idx := strings.IndexRune(s, '=')
	if idx < 0 {
		return errtrace.Wrap(fmt.Errorf("expected form 'name=value'"))
	}

	p.Name = s[:idx]
	p.Value = s[idx+1:]
	return nil
}
