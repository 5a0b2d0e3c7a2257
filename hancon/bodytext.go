package hancon

import (
	"encoding/binary"
	"unicode/utf16"
)

// Control character classes inside PARA_TEXT. Code units below 32 are
// control codes: "char" controls occupy one unit, inline and extended
// controls occupy eight (the unit itself plus seven units of payload).
func controlUnits(u uint16) int {
	switch u {
	case 0, 10, 13, 24, 25, 26, 27, 28, 29, 30, 31:
		return 1
	default:
		return 8
	}
}

// FourCC of the table control in a CTRL_HEADER payload.
const ctrlIDTable = "tbl " // stored reversed on the wire

// sectionBuilder reduces one BodyText record stream into a Section. The
// record level field drives nesting: a paragraph at a level deeper than an
// open table belongs to the table's current cell; a record at or above the
// table's level closes it.
type sectionBuilder struct {
	section *Section

	para      *Paragraph // paragraph currently receiving inlines
	paraLevel uint16

	table      *Table // open table control, if any
	tableLevel uint16
	cell       *TableCell // cell currently receiving blocks

	pendingCtrl bool // a PARA_TEXT unit 11 announced an anchored control

	nextParaID  uint32
	nextTableID uint32
}

// parseBodyText reduces the record stream of one BodyText/SectionN stream.
func parseBodyText(data []byte, doc *Document) (*Section, error) {
	b := &sectionBuilder{section: NewSection()}
	rr := NewRecordReader(data)
	for {
		rec, err := rr.Next()
		if err != nil {
			return nil, err
		}
		if rec == nil {
			break
		}
		b.consume(rec)
	}
	b.closeParagraph()
	b.closeTable()
	return b.section, nil
}

func (b *sectionBuilder) consume(rec *Record) {
	// A record at or above an open table's level ends the table, except
	// for the records that make up the table itself.
	if b.table != nil && rec.Level <= b.tableLevel {
		switch rec.TagID {
		case HWPTAG_TABLE, HWPTAG_LIST_HEADER, HWPTAG_TABLE_CELL:
		default:
			b.closeTable()
		}
	}

	switch rec.TagID {
	case HWPTAG_PARAGRAPH:
		b.openParagraph(rec)
	case HWPTAG_PARA_TEXT:
		b.appendText(rec.Payload)
	case HWPTAG_PARA_CHAR_SHAPE:
		b.applyCharShapes(rec.Payload)
	case HWPTAG_CTRL_HEADER:
		b.openControl(rec)
	case HWPTAG_TABLE:
		b.defineTable(rec.Payload)
	case HWPTAG_LIST_HEADER:
		// begins the paragraph list of the next cell; handled via TABLE_CELL
	case HWPTAG_TABLE_CELL:
		b.openCell(rec.Payload)
	case HWPTAG_SECTION_DEF:
		b.applySectionDef(rec.Payload)
	}
}

// openParagraph starts a new paragraph. Payload: nchars u32, control mask
// u32, para-shape id u16, style id u8; all tolerant of truncation.
func (b *sectionBuilder) openParagraph(rec *Record) {
	b.closeParagraph()

	p := NewParagraph(b.nextParaID)
	b.nextParaID++
	p.Level = uint8(rec.Level)
	if v, ok := readU16(rec.Payload, 8); ok {
		p.ParaShapeID = uint32(v)
	}
	if v, ok := readU8(rec.Payload, 10); ok {
		p.StyleID = uint32(v)
	}
	b.para = p
	b.paraLevel = rec.Level
}

// closeParagraph files the open paragraph with its container: the open
// table cell when the paragraph sits below the table's level, else the
// section.
func (b *sectionBuilder) closeParagraph() {
	if b.para == nil {
		return
	}
	p := b.para
	b.para = nil

	if b.table != nil && b.cell != nil && b.paraLevel > b.tableLevel {
		b.cell.Content = append(b.cell.Content, p)
		return
	}
	b.section.Blocks = append(b.section.Blocks, p)
}

// appendText decodes a PARA_TEXT payload into text runs on the open
// paragraph, skipping control units.
func (b *sectionBuilder) appendText(payload []byte) {
	if b.para == nil {
		b.openParagraph(&Record{})
	}

	units := make([]uint16, 0, len(payload)/2)
	for i := 0; i+2 <= len(payload); i += 2 {
		units = append(units, binary.LittleEndian.Uint16(payload[i:i+2]))
	}

	var run []uint16
	flush := func() {
		if len(run) == 0 {
			return
		}
		b.para.Inlines = append(b.para.Inlines, &TextRun{
			Text:        string(utf16.Decode(run)),
			CharShapeID: b.para.CharShapeID,
		})
		run = run[:0]
	}

	for i := 0; i < len(units); {
		u := units[i]
		if u >= 32 {
			run = append(run, u)
			i++
			continue
		}
		if u == 9 {
			run = append(run, '\t')
			i++
			continue
		}
		flush()
		if u == 11 {
			// anchor for the control carried by the next CTRL_HEADER
			b.pendingCtrl = true
		}
		i += controlUnits(u)
	}
	flush()
}

// applyCharShapes reads the (position, char-shape id) pairs of a
// PARA_CHAR_SHAPE record. Only the first pair is used: it sets the
// paragraph's char shape and the shape of every run already collected.
// Later pairs are read past; runs are not split at their positions.
func (b *sectionBuilder) applyCharShapes(payload []byte) {
	if b.para == nil {
		return
	}
	for off := 0; off+8 <= len(payload); off += 8 {
		shapeID, _ := readU32(payload, off+4)
		if off == 0 {
			b.para.CharShapeID = shapeID
			for _, inl := range b.para.Inlines {
				if tr, ok := inl.(*TextRun); ok {
					tr.CharShapeID = shapeID
				}
			}
		}
	}
}

// openControl inspects a CTRL_HEADER payload. Only the table control opens
// a block container; other controls are anchored as opaque inlines.
func (b *sectionBuilder) openControl(rec *Record) {
	id, ok := readU32(rec.Payload, 0)
	if !ok {
		return
	}
	// The FourCC is stored byte-reversed.
	fourcc := string([]byte{byte(id >> 24), byte(id >> 16), byte(id >> 8), byte(id)})

	if fourcc == ctrlIDTable {
		b.closeTable()
		b.table = &Table{ID: b.nextTableID}
		b.nextTableID++
		b.tableLevel = rec.Level
		b.cell = nil
		b.pendingCtrl = false
		return
	}

	if b.pendingCtrl && b.para != nil {
		b.para.Inlines = append(b.para.Inlines, &Control{Kind: ControlOLE})
	}
	b.pendingCtrl = false
}

// defineTable reads the TABLE record of the open table control:
// attribute u32, rows u16, cols u16, border-fill id u16.
func (b *sectionBuilder) defineTable(payload []byte) {
	if b.table == nil {
		b.table = &Table{ID: b.nextTableID}
		b.nextTableID++
		b.tableLevel = 0
	}
	if rows, ok := readU16(payload, 4); ok {
		b.table.Rows = int(rows)
	}
	if cols, ok := readU16(payload, 6); ok {
		b.table.Cols = int(cols)
	}
	if bf, ok := readU16(payload, 8); ok {
		b.table.BorderFillID = uint32(bf)
	}
}

// openCell starts a new cell of the open table: col u16, row u16,
// col-span u16, row-span u16.
func (b *sectionBuilder) openCell(payload []byte) {
	if b.table == nil {
		return
	}
	b.closeParagraph()

	cell := &TableCell{RowSpan: 1, ColSpan: 1}
	if v, ok := readU16(payload, 0); ok {
		cell.Col = int(v)
	}
	if v, ok := readU16(payload, 2); ok {
		cell.Row = int(v)
	}
	if v, ok := readU16(payload, 4); ok && v > 0 {
		cell.ColSpan = int(v)
	}
	if v, ok := readU16(payload, 6); ok && v > 0 {
		cell.RowSpan = int(v)
	}
	b.table.Cells = append(b.table.Cells, cell)
	b.cell = cell
}

// closeTable files the open table with the section.
func (b *sectionBuilder) closeTable() {
	if b.table == nil {
		return
	}
	b.closeParagraph()
	b.section.Blocks = append(b.section.Blocks, b.table)
	b.table = nil
	b.cell = nil
}

// applySectionDef reads page geometry from a SECTION_DEF record when the
// payload carries it; otherwise the A4 defaults stand. The page size sits
// past the leading attribute words: width u32@8, height u32@12, then the
// four margins.
func (b *sectionBuilder) applySectionDef(payload []byte) {
	if w, ok := readU32(payload, 8); ok && w > 0 {
		b.section.PageWidth = HwpUnit(w)
	}
	if h, ok := readU32(payload, 12); ok && h > 0 {
		b.section.PageHeight = HwpUnit(h)
	}
	if v, ok := readU32(payload, 16); ok && v > 0 {
		b.section.MarginLeft = HwpUnit(v)
	}
	if v, ok := readU32(payload, 20); ok && v > 0 {
		b.section.MarginRight = HwpUnit(v)
	}
	if v, ok := readU32(payload, 24); ok && v > 0 {
		b.section.MarginTop = HwpUnit(v)
	}
	if v, ok := readU32(payload, 28); ok && v > 0 {
		b.section.MarginBottom = HwpUnit(v)
	}
}
