package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"

	"github.com/yamltools/yamldiff/internal/config"
	"github.com/yamltools/yamldiff/internal/differ"
	"github.com/yamltools/yamldiff/internal/errors"
	"github.com/yamltools/yamldiff/internal/formatter"
	"github.com/yamltools/yamldiff/internal/parser"
)

// CLI defines the command-line interface
var CLI struct {
	Left    string   `arg:"" optional:"" help:"Left YAML file." type:"path"`
	Right   string   `arg:"" optional:"" help:"Right YAML file." type:"path"`
	Format  string   `help:"Output format." short:"f" default:"text" enum:"text,json,yaml"`
	Context int      `help:"Number of source lines to show around each change in text output." short:"C" default:"0"`
	Ignore  []string `help:"Regex of change paths to suppress. May be repeated."`
	Quiet   bool     `help:"Suppress output; report differences through the exit code only." short:"q"`
	NoColor bool     `help:"Disable colored output."`
	Config  string   `help:"Path to a yamldiff config file." type:"path"`
	Debug   bool     `help:"Enable debug logging." short:"d"`
	Version bool     `help:"Show version information." short:"v"`
}

// Version information
const (
	Version = "0.1.0"
)

// Exit codes: differences found and execution errors are distinct so the
// tool is usable from scripts.
const (
	exitNoDifferences    = 0
	exitDifferencesFound = 1
	exitError            = 2
)

func main() {
	// Parse CLI arguments with Kong
	cliParser := kong.Must(&CLI,
		kong.Name("yamldiff"),
		kong.Description("Semantic diff for YAML documents. Compares the parsed data trees, "+
			"so formatting, key order, quoting and comments never count as differences. "+
			"Sequences are compared by index (no reordering detection); a null on one side "+
			"against a non-null value on the other is reported as a type change."),
		kong.UsageOnError(),
	)

	ctx, err := cliParser.Parse(os.Args[1:])
	if err != nil {
		// Usage has already been shown by kong.UsageOnError()
		os.Exit(exitError)
	}

	// Show version and exit if requested
	if CLI.Version {
		fmt.Printf("yamldiff version %s\n", Version)
		return
	}

	if CLI.Debug {
		log.SetLevel(log.DebugLevel)
	}

	if CLI.Left == "" || CLI.Right == "" {
		fmt.Fprintln(os.Stderr, "yamldiff: two file paths are required")
		fmt.Fprintln(os.Stderr, "\nFor help, run: yamldiff --help")
		os.Exit(exitError)
	}

	found, err := run(cliOverrides(flagsGiven(ctx)))
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: yamldiff --help\n")
		os.Exit(exitError)
	}

	if found {
		os.Exit(exitDifferencesFound)
	}
	os.Exit(exitNoDifferences)
}

// flagsGiven reports which flags were explicitly passed on the command
// line, so a flag set to its default value still overrides the config
// file.
func flagsGiven(ctx *kong.Context) map[string]bool {
	given := make(map[string]bool)
	for _, trace := range ctx.Path {
		if trace.Flag != nil && !trace.Resolved {
			given[trace.Flag.Name] = true
		}
	}
	return given
}

func cliOverrides(given map[string]bool) config.CLIOverrides {
	return config.CLIOverrides{
		Format:     CLI.Format,
		FormatSet:  given["format"],
		Context:    CLI.Context,
		ContextSet: given["context"],
		Quiet:      CLI.Quiet,
		QuietSet:   given["quiet"],
		NoColor:    CLI.NoColor,
		NoColorSet: given["no-color"],
		Ignore:     CLI.Ignore,
	}
}

// run executes the comparison and reports whether differences were found
func run(overrides config.CLIOverrides) (bool, error) {
	// 1. Resolve configuration (config file defaults, CLI overrides)
	cfg, err := config.LoadConfigWithCLI(CLI.Config, overrides)
	if err != nil {
		return false, errors.NewConfigError("failed to load configuration", err)
	}
	if !cfg.Output.Color {
		color.NoColor = true
	}

	// 2. Load both documents; no diff is attempted if either side fails
	left, err := parser.ParseFile(CLI.Left)
	if err != nil {
		return false, err
	}
	right, err := parser.ParseFile(CLI.Right)
	if err != nil {
		return false, err
	}
	log.Debugf("parsed %s and %s", CLI.Left, CLI.Right)

	// 3. Compute the structural diff
	differInst := differ.NewDifferWithIgnore(cfg.IgnorePatterns())
	changes := differInst.Diff(left, right)
	log.Debugf("%d change(s) detected", len(changes))

	if cfg.Output.Quiet {
		return len(changes) > 0, nil
	}

	// 4. Render the changes
	opts := formatter.Options{
		Format:  cfg.Output.Format,
		Context: cfg.Output.Context,
	}
	if opts.Format == formatter.FormatText && opts.Context > 0 {
		if err := loadSources(&opts); err != nil {
			return len(changes) > 0, err
		}
	}
	formatterInst := formatter.NewFormatterWithOptions(opts)
	output, err := formatterInst.Format(changes)
	if err != nil {
		return len(changes) > 0, err
	}

	// 5. Print the result and, for text output, a summary line
	if _, err := fmt.Print(output); err != nil {
		return len(changes) > 0, errors.NewOutputError("failed to write to stdout", err)
	}
	if opts.Format == formatter.FormatText {
		if len(changes) == 0 {
			fmt.Println("The given files are identical.")
		} else {
			fmt.Printf("%d difference(s) found.\n", len(changes))
		}
	}

	return len(changes) > 0, nil
}

// loadSources re-reads both documents for the context display
func loadSources(opts *formatter.Options) error {
	leftData, err := os.ReadFile(CLI.Left)
	if err != nil {
		return errors.NewInputError(fmt.Sprintf("failed to read file '%s'", CLI.Left), err)
	}
	rightData, err := os.ReadFile(CLI.Right)
	if err != nil {
		return errors.NewInputError(fmt.Sprintf("failed to read file '%s'", CLI.Right), err)
	}
	opts.LeftSource = string(leftData)
	opts.RightSource = string(rightData)
	return nil
}
