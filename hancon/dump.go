package hancon

import (
	"fmt"
	"io"
	"strings"
)

// hexCharDump writes data in hex and character columns, 16 bytes per line.
func hexCharDump(w io.Writer, data []byte, base int) {
	for pos := 0; pos < len(data); pos += 16 {
		end := pos + 16
		if end > len(data) {
			end = len(data)
		}
		chunk := data[pos:end]

		hexParts := make([]string, len(chunk))
		charParts := make([]string, len(chunk))
		for i, c := range chunk {
			hexParts[i] = fmt.Sprintf("%02x", c)
			switch {
			case c == 0:
				charParts[i] = "~"
			case c >= 32 && c <= 126:
				charParts[i] = string(c)
			default:
				charParts[i] = "?"
			}
		}
		fmt.Fprintf(w, "%5d:     %-48s %s\n", base+pos, strings.Join(hexParts, " "), strings.Join(charParts, ""))
	}
}

// DumpRecords walks data as an HWP record stream and writes one header
// line per record (offset, tag name, level, size) followed by a payload
// hex dump. Unknown tags print with a synthesised name. A malformed
// record terminates the dump with a final error line.
func DumpRecords(w io.Writer, data []byte) {
	rr := NewRecordReader(data)
	for {
		pos := rr.Position()
		rec, err := rr.Next()
		if err != nil {
			fmt.Fprintf(w, "%5d: ---- %v ----\n", pos, err)
			return
		}
		if rec == nil {
			return
		}
		fmt.Fprintf(w, "%5d: %s level=%d size=%d\n", pos, rec.TagName(), rec.Level, rec.Size)
		hexCharDump(w, rec.Payload, rr.Position()-len(rec.Payload))
	}
}
