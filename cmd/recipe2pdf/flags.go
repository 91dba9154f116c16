package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// commonFlags holds output control flags.
type commonFlags struct {
	config    string
	quiet     bool
	verbose   bool
	logFormat string
}

// exportFlags holds flags that override the export config.
type exportFlags struct {
	output      string
	max         int
	maxSet      bool
	noDocuments bool
	fromArchive string
	outline     bool
}

// cliFlags holds every flag of the command.
type cliFlags struct {
	common      commonFlags
	export      exportFlags
	printConfig bool
	version     bool
	help        bool
}

// addCommonFlags adds output control flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show warnings and errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: text, json")
}

// addExportFlags adds export flags to a FlagSet.
func addExportFlags(fs *flag.FlagSet, f *exportFlags) {
	fs.StringVarP(&f.output, "output", "o", "", "output directory")
	fs.IntVarP(&f.max, "max", "n", 0, "render the first N recipes only (-1 = all)")
	fs.BoolVar(&f.noDocuments, "no-documents", false, "write the archive only")
	fs.StringVar(&f.fromArchive, "from-archive", "", "render recipes from a saved archive instead of the service")
	fs.BoolVar(&f.outline, "outline", false, "also write a text outline per recipe")
}

// parseFlags parses command flags. Positional arguments are rejected.
func parseFlags(args []string, stderr io.Writer) (*cliFlags, error) {
	fs := flag.NewFlagSet("recipe2pdf", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &cliFlags{}

	addCommonFlags(fs, &f.common)
	addExportFlags(fs, &f.export)
	fs.BoolVar(&f.printConfig, "print-config", false, "print the effective config and exit")
	fs.BoolVar(&f.version, "version", false, "show version information")
	fs.BoolVarP(&f.help, "help", "h", false, "show this help")

	fs.Usage = func() { printUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, errorf(ErrUsage, "%v", err)
	}
	if fs.NArg() > 0 {
		return nil, errorf(ErrUsage, "unexpected argument %q", fs.Arg(0))
	}
	if f.common.quiet && f.common.verbose {
		return nil, errorf(ErrUsage, "--quiet and --verbose are mutually exclusive")
	}
	f.export.maxSet = fs.Changed("max")

	return f, nil
}
