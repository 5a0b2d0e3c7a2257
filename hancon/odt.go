package hancon

import (
	"fmt"
	"strconv"
	"strings"
)

// ODTMimeType is the content of the mimetype member, byte for byte.
const ODTMimeType = "application/vnd.oasis.opendocument.text"

// maxBlockDepth bounds table-in-cell recursion in the writer. Inputs
// nesting deeper than this are rejected rather than risking the stack.
const maxBlockDepth = 32

// GenerateODT renders the document model as an ODT package. The member
// order is fixed: mimetype first (stored, so consumers can sniff it at a
// fixed offset), then the manifest and the four XML parts.
func GenerateODT(doc *Document) ([]byte, error) {
	content, err := generateContentXML(doc)
	if err != nil {
		return nil, err
	}
	styles, err := generateStylesXML(doc)
	if err != nil {
		return nil, err
	}

	entries := []ZipEntry{
		{Name: "mimetype", Data: []byte(ODTMimeType)},
		{Name: "META-INF/manifest.xml", Data: []byte(manifestXML)},
		{Name: "content.xml", Data: []byte(content)},
		{Name: "styles.xml", Data: []byte(styles)},
		{Name: "settings.xml", Data: []byte(settingsXML)},
		{Name: "meta.xml", Data: []byte(metaXML)},
	}
	return WriteZipStored(entries)
}

const manifestXML = `<?xml version="1.0" encoding="UTF-8"?>
<manifest:manifest xmlns:manifest="urn:oasis:names:tc:opendocument:xmlns:manifest:1.0" manifest:version="1.2">
  <manifest:file-entry manifest:media-type="application/vnd.oasis.opendocument.text" manifest:full-path="/"/>
  <manifest:file-entry manifest:media-type="text/xml" manifest:full-path="content.xml"/>
  <manifest:file-entry manifest:media-type="text/xml" manifest:full-path="styles.xml"/>
  <manifest:file-entry manifest:media-type="text/xml" manifest:full-path="settings.xml"/>
  <manifest:file-entry manifest:media-type="text/xml" manifest:full-path="meta.xml"/>
</manifest:manifest>`

const settingsXML = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-settings
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  office:version="1.2">
  <office:settings/>
</office:document-settings>`

const metaXML = `<?xml version="1.0" encoding="UTF-8"?>
<office:document-meta
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:meta="urn:oasis:names:tc:opendocument:xmlns:meta:1.0"
  xmlns:dc="http://purl.org/dc/elements/1.1/"
  office:version="1.2">
  <office:meta>
    <meta:generator>hancon/Go</meta:generator>
  </office:meta>
</office:document-meta>`

func generateContentXML(doc *Document) (string, error) {
	var xml strings.Builder
	xml.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<office:document-content
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"
  xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
  xmlns:draw="urn:oasis:names:tc:opendocument:xmlns:drawing:1.0"
  xmlns:svg="urn:oasis:names:tc:opendocument:xmlns:svg-compatible:1.0"
  xmlns:xlink="http://www.w3.org/1999/xlink"
  office:version="1.2">
  <office:scripts/>
  <office:font-face-decls>`)

	writeFontFaces(&xml, doc)

	xml.WriteString(`
  </office:font-face-decls>
  <office:automatic-styles/>
  <office:body>
    <office:text>`)

	for _, section := range doc.Sections {
		for _, block := range section.Blocks {
			if err := writeBlock(&xml, block, 0); err != nil {
				return "", err
			}
		}
	}

	xml.WriteString(`
    </office:text>
  </office:body>
</office:document-content>`)
	return xml.String(), nil
}

func writeFontFaces(xml *strings.Builder, doc *Document) {
	for idx, name := range doc.Fonts {
		fmt.Fprintf(xml, `
    <style:font-face style:name="F%d" svg:font-family="&apos;%s&apos;"
      style:font-family-generic="swiss" style:font-pitch="variable"/>`,
			idx, escapeXMLAttr(name))
	}
}

func writeBlock(xml *strings.Builder, block Block, depth int) error {
	if depth > maxBlockDepth {
		return NewHwpError(ErrParse, "block nesting exceeds %d levels", maxBlockDepth)
	}

	switch b := block.(type) {
	case *Paragraph:
		fmt.Fprintf(xml, `
      <text:p text:style-name="P%d">`, b.StyleID)
		for _, inline := range b.Inlines {
			writeInline(xml, inline)
		}
		xml.WriteString(`</text:p>`)

	case *Table:
		return writeTable(xml, b, depth)

	case *Shape:
		// not rendered
	}
	return nil
}

// writeTable normalises the cell list into a dense grid before emitting
// rows: the anchor cell of a span carries the spanned counts, and every
// covered position emits a covered-table-cell so each row renders exactly
// Cols grid positions.
func writeTable(xml *strings.Builder, t *Table, depth int) error {
	fmt.Fprintf(xml, `
      <table:table table:name="Table%d" table:style-name="Table1">`, t.ID)

	anchors := make(map[[2]int]*TableCell)
	covered := make(map[[2]int]bool)
	for _, cell := range t.Cells {
		anchors[[2]int{cell.Row, cell.Col}] = cell
		for r := cell.Row; r < cell.Row+max(cell.RowSpan, 1); r++ {
			for c := cell.Col; c < cell.Col+max(cell.ColSpan, 1); c++ {
				if r == cell.Row && c == cell.Col {
					continue
				}
				covered[[2]int{r, c}] = true
			}
		}
	}

	for row := 0; row < t.Rows; row++ {
		xml.WriteString(`
        <table:table-row>`)
		for col := 0; col < t.Cols; col++ {
			pos := [2]int{row, col}
			if cell, ok := anchors[pos]; ok {
				xml.WriteString(`
          <table:table-cell table:value-type="string"`)
				if cell.ColSpan > 1 {
					fmt.Fprintf(xml, ` table:number-columns-spanned="%d"`, cell.ColSpan)
				}
				if cell.RowSpan > 1 {
					fmt.Fprintf(xml, ` table:number-rows-spanned="%d"`, cell.RowSpan)
				}
				xml.WriteString(`>`)
				for _, content := range cell.Content {
					if err := writeBlock(xml, content, depth+1); err != nil {
						return err
					}
				}
				xml.WriteString(`
          </table:table-cell>`)
			} else if covered[pos] {
				xml.WriteString(`
          <table:covered-table-cell/>`)
			} else {
				xml.WriteString(`
          <table:table-cell table:value-type="string"/>`)
			}
		}
		xml.WriteString(`
        </table:table-row>`)
	}

	xml.WriteString(`
      </table:table>`)
	return nil
}

func writeInline(xml *strings.Builder, inline Inline) {
	switch in := inline.(type) {
	case *TextRun:
		fmt.Fprintf(xml, `<text:span text:style-name="T%d">%s</text:span>`,
			in.CharShapeID, escapeXMLText(in.Text))
	case Field:
		switch in {
		case FieldPageNumber:
			xml.WriteString(`<text:page-number/>`)
		case FieldPageCount:
			xml.WriteString(`<text:page-count/>`)
		case FieldDate:
			xml.WriteString(`<text:date/>`)
		case FieldTime:
			xml.WriteString(`<text:time/>`)
		}
	case *Control:
		// controls are not rendered; tables reach the writer as blocks
	}
}

func generateStylesXML(doc *Document) (string, error) {
	var xml strings.Builder
	xml.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<office:document-styles
  xmlns:office="urn:oasis:names:tc:opendocument:xmlns:office:1.0"
  xmlns:style="urn:oasis:names:tc:opendocument:xmlns:style:1.0"
  xmlns:text="urn:oasis:names:tc:opendocument:xmlns:text:1.0"
  xmlns:table="urn:oasis:names:tc:opendocument:xmlns:table:1.0"
  xmlns:fo="urn:oasis:names:tc:opendocument:xmlns:xsl-fo-compatible:1.0"
  xmlns:svg="urn:oasis:names:tc:opendocument:xmlns:svg-compatible:1.0"
  office:version="1.2">
  <office:font-face-decls>`)

	writeFontFaces(&xml, doc)

	xml.WriteString(`
  </office:font-face-decls>
  <office:styles>
    <style:default-style style:family="paragraph">
      <style:paragraph-properties/>
      <style:text-properties/>
    </style:default-style>`)

	for _, cs := range doc.CharShapes {
		fmt.Fprintf(&xml, `
    <style:style style:name="T%d" style:family="text">
      <style:text-properties style:font-name="F%d" fo:font-size="%spt" fo:color="%s"%s/>
    </style:style>`,
			cs.ID, cs.FontID, formatFixed(cs.FontSize.ToPt()), cs.Color.Hex(), boldAttr(cs))
	}

	for _, ps := range doc.ParaShapes {
		fmt.Fprintf(&xml, `
    <style:style style:name="P%d" style:family="paragraph">
      <style:paragraph-properties fo:text-align="%s" fo:margin-left="%smm" fo:margin-right="%smm"/>
    </style:style>`,
			ps.ID, ps.Alignment.ODTString(),
			formatFixed(ps.IndentLeft.ToMM()), formatFixed(ps.IndentRight.ToMM()))
	}

	xml.WriteString(`
  </office:styles>
  <office:automatic-styles>
    <style:style style:name="Table1" style:family="table">
      <style:table-properties table:border-model="collapsing"/>
    </style:style>
  </office:automatic-styles>
  <office:master-styles>
    <style:master-page style:name="Standard" style:page-layout-name="pm1"/>
  </office:master-styles>
</office:document-styles>`)
	return xml.String(), nil
}

func boldAttr(cs *CharShape) string {
	if cs.Bold {
		return ` fo:font-weight="bold"`
	}
	return ""
}

// formatFixed renders a display length with two-decimal fixed precision.
func formatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// escapeXMLText escapes the characters that are unsafe in XML text nodes.
func escapeXMLText(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			out.WriteString("&amp;")
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}

// escapeXMLAttr escapes the characters that are unsafe in XML attribute
// values, quotes included.
func escapeXMLAttr(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	for _, r := range s {
		switch r {
		case '&':
			out.WriteString("&amp;")
		case '<':
			out.WriteString("&lt;")
		case '>':
			out.WriteString("&gt;")
		case '"':
			out.WriteString("&quot;")
		case '\'':
			out.WriteString("&apos;")
		default:
			out.WriteRune(r)
		}
	}
	return out.String()
}
