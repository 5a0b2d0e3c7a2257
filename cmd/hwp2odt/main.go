package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/KwangSon/hancon/hancon"
)

var version = "dev"

type options struct {
	output    string
	dump      bool
	verbosity int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hwp2odt", flag.ContinueOnError)
	fs.SetOutput(stderr)

	showVersion := fs.Bool("version", false, "show program's version number and exit")
	output := fs.String("o", "", "output ODT file path (default: input path with .odt extension)")
	dump := fs.Bool("d", false, "dump the document's record streams instead of converting")
	verbose := fs.Bool("v", false, "verbose: log the streams visited during conversion")

	fs.Usage = func() {
		fmt.Fprint(stderr, usageText())
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Fprintln(stdout, version)
		return 0
	}

	rest := fs.Args()
	if len(rest) != 1 {
		fs.Usage()
		return 2
	}
	inputPath := rest[0]

	opts := options{output: *output, dump: *dump}
	if *verbose {
		opts.verbosity = 1
	}

	var content []byte
	var err error
	if inputPath == "-" {
		content, err = io.ReadAll(stdin)
	} else {
		content, err = os.ReadFile(inputPath)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	if opts.dump {
		if err := dumpStreams(content, stdout); err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		return 0
	}

	if err := convertFile(inputPath, content, opts, stdout, stderr); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func convertFile(inputPath string, content []byte, opts options, stdout, stderr io.Writer) error {
	result, err := hancon.Convert(content, &hancon.ConvertOptions{
		Logfile:   stderr,
		Verbosity: opts.verbosity,
	})
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}

	outputPath := opts.output
	if outputPath == "" {
		if inputPath == "-" {
			outputPath = "-"
		} else {
			outputPath = strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + ".odt"
		}
	}

	if outputPath == "-" {
		_, err = stdout.Write(result.Data)
		return err
	}
	return os.WriteFile(outputPath, result.Data, 0o644)
}

// dumpStreams prints the record streams of an HWP file for inspection.
func dumpStreams(content []byte, w io.Writer) error {
	format, err := hancon.DetectFormat(content)
	if err != nil {
		return err
	}
	if format != hancon.FormatHWP {
		return fmt.Errorf("%s: record dump is only available for HWP v5", hancon.FileFormatDescriptions[format])
	}

	cd, err := hancon.NewCompDoc(content, w)
	if err != nil {
		return err
	}
	for _, name := range cd.StreamNames() {
		if name != "DocInfo" && !strings.HasPrefix(name, "BodyText/") {
			continue
		}
		data, err := cd.GetStream(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "==== %s (%d bytes)\n", name, len(data))
		hancon.DumpRecords(w, data)
	}
	return nil
}

func usageText() string {
	return `Usage:

 hwp2odt [-version] [-v] [-d] [-o OUTFILE] hwpfile

positional arguments:

  hwpfile               HWP v5 file path, use '-' to read from STDIN

optional arguments:

  -version              show program's version number and exit
  -o OUTFILE            output ODT file path, '-' for STDOUT
                        (default: input path with .odt extension)
  -d                    dump the record streams instead of converting
  -v                    verbose: log the streams visited during conversion
`
}
