package main

import (
	"fmt"
	"io"
)

// printUsage prints the usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: recipe2pdf [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export every recipe of an AnyList account to a JSON archive and one PDF per recipe.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Credentials:")
	fmt.Fprintln(w, "  ANYLIST_EMAIL and ANYLIST_PASSWORD, read from the environment or a .env file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (default: recipe-pdfs)")
	fmt.Fprintln(w, "  -n, --max <n>             Render the first N recipes only (-1 = all)")
	fmt.Fprintln(w, "      --no-documents        Write the archive only")
	fmt.Fprintln(w, "      --from-archive <path> Render a saved archive instead of the service")
	fmt.Fprintln(w, "      --outline             Also write a text outline per recipe")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Configuration:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "      --print-config        Print the effective config and exit")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show warnings and errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w, "      --log-format <s>      Log format: text, json")
	fmt.Fprintln(w, "      --version             Show version information")
	fmt.Fprintln(w, "  -h, --help                Show this help")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  RECIPE2PDF_CONFIG, RECIPE2PDF_OUTPUT_DIR, RECIPE2PDF_GENERATE_DOCUMENTS,")
	fmt.Fprintln(w, "  RECIPE2PDF_MAX_DOCUMENTS, RECIPE2PDF_LOG_FORMAT")
	fmt.Fprintln(w, "  Precedence: flags > environment > config file > defaults")
}
