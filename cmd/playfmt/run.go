package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/playfmt/internal/config"
	"github.com/dgallion1/playfmt/internal/doctree"
	"github.com/dgallion1/playfmt/internal/logging"
	"github.com/dgallion1/playfmt/internal/parser"
	"github.com/dgallion1/playfmt/internal/pipeline"
	flag "github.com/spf13/pflag"
)

// Exit codes: 0=success, 1=general, 2=usage.
const (
	exitSuccess = 0
	exitGeneral = 1
	exitUsage   = 2
)

var errUsage = errors.New("usage error")

type cliFlags struct {
	meta    doctree.Metadata
	output  string
	format  string
	config  string
	preview bool
	guess   bool
	noEnd   bool
}

func parseFlags(args []string, stderr io.Writer) (*cliFlags, []string, error) {
	f := &cliFlags{}
	fs := flag.NewFlagSet("playfmt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: playfmt [flags] <script.txt|script.docx|...|->")
		fs.PrintDefaults()
	}

	fs.StringVar(&f.meta.Title, "title", "", "play title (required)")
	fs.StringVar(&f.meta.Author, "author", "", "author name (required)")
	fs.StringVar(&f.meta.Scene, "scene", "", "scene/act line at the top of the first script page")
	fs.StringVar(&f.meta.Draft, "draft", "", "draft line for the title page")
	fs.StringVar(&f.meta.Contact, "contact", "", "contact line for the title page")
	fs.StringVar(&f.meta.Copyright, "copyright", "", "copyright holder and year")
	fs.StringVarP(&f.output, "output", "o", "", "output file (\"-\" for stdout)")
	fs.StringVar(&f.format, "format", "", "output format: docx or pdf (default from --output, else docx)")
	fs.StringVar(&f.config, "config", "", "YAML config file (default $PLAYFMT_CONFIG)")
	fs.BoolVar(&f.preview, "preview", false, "print a plain-text preview instead of writing a file")
	fs.BoolVar(&f.guess, "guess", false, "read title, author and scene from the script's title page")
	fs.BoolVar(&f.noEnd, "no-end", false, "omit the end-of-play marker")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags, positional, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitSuccess
	}
	if err != nil {
		return exitUsage
	}
	if err := formatScript(flags, positional, stdin, stdout, stderr); err != nil {
		fmt.Fprintln(stderr, "playfmt:", err)
		if errors.Is(err, errUsage) {
			return exitUsage
		}
		return exitGeneral
	}
	return exitSuccess
}

func formatScript(flags *cliFlags, positional []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(positional) != 1 {
		return fmt.Errorf("%w: expected exactly one input file or \"-\"", errUsage)
	}
	input := positional[0]

	path := flags.config
	if path == "" {
		path = os.Getenv("PLAYFMT_CONFIG")
	}
	cfg, err := config.LoadWith(path)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	logOpts := cfg.Log
	logOpts.Writer = stderr
	if logOpts.Level == "" || strings.EqualFold(logOpts.Level, "info") {
		logOpts.Level = "warn"
	}
	log, closer := logging.New(logOpts)
	defer closer.Close()

	bopts := cfg.BuilderOptions()
	if flags.noEnd {
		bopts.EndMarker = false
	}
	pipe := pipeline.New(pipeline.Options{
		Render:               cfg.Render,
		Builder:              bopts,
		PDFFallbackPdftotext: cfg.PDFFallbackPdftotext,
	}, log)

	ctx := context.Background()
	script, guessed, err := readInput(ctx, pipe, input, stdin, flags.guess)
	if err != nil {
		return err
	}
	meta := mergeMeta(flags.meta, guessed)

	if flags.preview {
		res, err := pipe.Preview(ctx, meta, script)
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, res.Text)
		return err
	}

	if err := pipeline.ValidateMetadata(meta); err != nil {
		return fmt.Errorf("%w: %s", errUsage, strings.ReplaceAll(err.Error(), "\n", "; "))
	}

	out, err := resolveOutput(flags.format, flags.output)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	res, err := pipe.Format(ctx, pipeline.Request{Meta: meta, Text: script, Output: out})
	if err != nil {
		return err
	}

	dest := flags.output
	if dest == "" {
		dest = defaultOutputPath(input, meta.Title, res.Extension)
	}
	if dest == "-" {
		_, err = stdout.Write(res.Artifact)
		return err
	}
	if err := os.WriteFile(dest, res.Artifact, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", dest, err)
	}
	fmt.Fprintf(stderr, "wrote %s (%d paragraphs, %d bytes)\n", dest, len(res.Document.Body), len(res.Artifact))
	return nil
}

// readInput loads the script text. Plain text is used as written; other
// formats go through the importer.
func readInput(ctx context.Context, pipe *pipeline.Pipeline, input string, stdin io.Reader, guess bool) (string, doctree.Metadata, error) {
	var data []byte
	var err error
	name := input
	if input == "-" {
		data, err = io.ReadAll(stdin)
		name = "stdin.txt"
	} else {
		if !parser.IsSupportedExtension(input) {
			return "", doctree.Metadata{}, fmt.Errorf("%w: unsupported input type %q", errUsage, filepath.Ext(input))
		}
		data, err = os.ReadFile(input)
	}
	if err != nil {
		return "", doctree.Metadata{}, fmt.Errorf("read input: %w", err)
	}

	imp, err := pipe.Import(ctx, bytes.NewReader(data), name, guess)
	if err != nil {
		return "", doctree.Metadata{}, err
	}
	return imp.Script, imp.Meta, nil
}

// mergeMeta fills empty flag values from guessed ones.
func mergeMeta(flags, guessed doctree.Metadata) doctree.Metadata {
	pick := func(a, b string) string {
		if strings.TrimSpace(a) != "" {
			return a
		}
		return b
	}
	return doctree.Metadata{
		Title:     pick(flags.Title, guessed.Title),
		Author:    pick(flags.Author, guessed.Author),
		Scene:     pick(flags.Scene, guessed.Scene),
		Draft:     pick(flags.Draft, guessed.Draft),
		Contact:   pick(flags.Contact, guessed.Contact),
		Copyright: pick(flags.Copyright, guessed.Copyright),
	}
}

// resolveOutput picks the artifact format from --format, then from the
// output file extension.
func resolveOutput(format, output string) (pipeline.Output, error) {
	if format != "" {
		return pipeline.ParseOutput(format)
	}
	if strings.EqualFold(filepath.Ext(output), ".pdf") {
		return pipeline.OutputPDF, nil
	}
	return pipeline.OutputDOCX, nil
}

// defaultOutputPath is <input>_FORMATTED.<ext> next to the input, or a slug of
// the title in the working directory for stdin.
func defaultOutputPath(input, title, ext string) string {
	if input == "-" {
		return pipeline.Filename(title, ext)
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + "_FORMATTED." + ext
}
