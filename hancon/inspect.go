package hancon

// FileFormat identifies the container format of an input buffer.
type FileFormat int

const (
	FormatHWP FileFormat = iota
	FormatHWPX
)

// ZIP_SIGNATURE is the magic cookie for ZIP files, and so for HWPX.
var ZIP_SIGNATURE = []byte("PK\x03\x04")

// FileFormatDescriptions provides human-readable names for the formats
// DetectFormat can report.
var FileFormatDescriptions = map[FileFormat]string{
	FormatHWP:  "HWP v5 (OLE2 compound document)",
	FormatHWPX: "HWPX (zipped XML)",
}

// DetectFormat sniffs the first bytes of data. An OLE2 signature means HWP,
// a ZIP signature means HWPX; anything else is an invalid format.
func DetectFormat(data []byte) (FileFormat, error) {
	if len(data) < 4 {
		return 0, NewHwpError(ErrInvalidFormat, "file too small")
	}
	if checkSignature(data, 0, HWP_SIGNATURE) {
		return FormatHWP, nil
	}
	if checkSignature(data, 0, ZIP_SIGNATURE) {
		return FormatHWPX, nil
	}
	return 0, NewHwpError(ErrInvalidFormat, "unknown file format")
}
