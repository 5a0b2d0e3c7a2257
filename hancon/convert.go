package hancon

import (
	"fmt"
	"io"
	"os"
)

// SuccessMessage is the fixed message attached to every successful
// conversion result.
const SuccessMessage = "Conversion completed successfully"

// largeFileAdvisory is the input size above which a warning is attached.
const largeFileAdvisory = 10 << 20

// ConvertOptions carries the optional knobs of a conversion.
type ConvertOptions struct {
	// Logfile is the writer that receives warnings. Defaults to os.Stdout.
	Logfile io.Writer

	// Verbosity is the diagnostic level. At 1 and above the converter logs
	// the streams it visits.
	Verbosity int
}

// ConversionResult is the outcome of a successful conversion.
type ConversionResult struct {
	// Data is the ODT package.
	Data []byte

	// Message is the fixed success message.
	Message string

	// Warnings are informational notes that did not stop the conversion.
	Warnings []string
}

// Convert turns one HWP document into one ODT package. It is a pure
// function of its input: no file-system access, no shared state, and the
// same bytes always produce the same bytes.
func Convert(data []byte, options *ConvertOptions) (*ConversionResult, error) {
	if options == nil {
		options = &ConvertOptions{}
	}
	if options.Logfile == nil {
		options.Logfile = os.Stdout
	}

	if len(data) == 0 {
		return nil, NewHwpError(ErrInvalidFormat, "File data is empty")
	}

	format, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}

	var warnings []string
	if len(data) > largeFileAdvisory {
		warnings = append(warnings, fmt.Sprintf("Input is %d bytes; conversion holds it in memory in full", len(data)))
	}

	var doc *Document
	switch format {
	case FormatHWP:
		doc, err = parseHWP(data, options)
	case FormatHWPX:
		err = NewHwpError(ErrParse, "HWPX parsing is not implemented")
	}
	if err != nil {
		return nil, err
	}

	if len(doc.Sections) == 0 {
		warnings = append(warnings, "Document has no sections")
	}

	odt, err := GenerateODT(doc)
	if err != nil {
		return nil, err
	}

	return &ConversionResult{
		Data:     odt,
		Message:  SuccessMessage,
		Warnings: warnings,
	}, nil
}

// ParseHWP decodes an HWP v5 byte buffer into the document model without
// rendering it. Mainly for tooling and tests.
func ParseHWP(data []byte) (*Document, error) {
	return parseHWP(data, &ConvertOptions{Logfile: io.Discard})
}

func parseHWP(data []byte, options *ConvertOptions) (*Document, error) {
	cd, err := NewCompDoc(data, options.Logfile)
	if err != nil {
		return nil, err
	}

	// FileHeader presence is the only validation the wrapper asks of it.
	if _, err := cd.GetStream("FileHeader"); err != nil {
		return nil, err
	}

	doc := NewDocument()

	if docinfo, err := cd.GetStream("DocInfo"); err == nil {
		if options.Verbosity >= 1 {
			fmt.Fprintf(options.Logfile, "DocInfo: %d bytes\n", len(docinfo))
		}
		if err := parseDocInfo(docinfo, doc); err != nil {
			return nil, err
		}
	} else if !IsNotFound(err) {
		return nil, err
	}

	// Sections are numbered densely from zero; the first miss terminates.
	for idx := 0; ; idx++ {
		name := fmt.Sprintf("BodyText/Section%d", idx)
		data, err := cd.GetStream(name)
		if err != nil {
			if IsNotFound(err) {
				break
			}
			return nil, err
		}
		if options.Verbosity >= 1 {
			fmt.Fprintf(options.Logfile, "%s: %d bytes\n", name, len(data))
		}
		section, err := parseBodyText(data, doc)
		if err != nil {
			return nil, err
		}
		doc.Sections = append(doc.Sections, section)
	}

	return doc, nil
}
