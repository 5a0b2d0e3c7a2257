package hancon

import (
	"encoding/binary"
	"testing"
)

// paraHeader builds a PARA_HEADER payload with the given shape references.
func paraHeader(paraShapeID uint16, styleID uint8) []byte {
	payload := make([]byte, 12)
	binary.LittleEndian.PutUint16(payload[8:], paraShapeID)
	payload[10] = styleID
	return payload
}

// charShapeRun builds one (position, shape id) pair of a PARA_CHAR_SHAPE
// payload.
func charShapeRun(pos, shapeID uint32) []byte {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint32(payload, pos)
	binary.LittleEndian.PutUint32(payload[4:], shapeID)
	return payload
}

func TestParseBodyTextParagraph(t *testing.T) {
	var stream []byte
	stream = append(stream, record(HWPTAG_PARAGRAPH, 0, paraHeader(2, 1))...)
	stream = append(stream, record(HWPTAG_PARA_TEXT, 1, utf16le("안녕하세요"))...)
	stream = append(stream, record(HWPTAG_PARA_CHAR_SHAPE, 1, charShapeRun(0, 5))...)

	section, err := parseBodyText(stream, NewDocument())
	if err != nil {
		t.Fatalf("parseBodyText: %v", err)
	}
	if len(section.Blocks) != 1 {
		t.Fatalf("blocks = %d, want 1", len(section.Blocks))
	}
	para, ok := section.Blocks[0].(*Paragraph)
	if !ok {
		t.Fatalf("block is %T, want *Paragraph", section.Blocks[0])
	}
	if para.ParaShapeID != 2 || para.StyleID != 1 {
		t.Errorf("para shape/style = %d/%d, want 2/1", para.ParaShapeID, para.StyleID)
	}
	if len(para.Inlines) != 1 {
		t.Fatalf("inlines = %d, want 1", len(para.Inlines))
	}
	run, ok := para.Inlines[0].(*TextRun)
	if !ok {
		t.Fatalf("inline is %T, want *TextRun", para.Inlines[0])
	}
	if run.Text != "안녕하세요" {
		t.Errorf("text = %q, want the original greeting", run.Text)
	}
	if run.CharShapeID != 5 {
		t.Errorf("char shape = %d, want 5", run.CharShapeID)
	}
}

func TestParseBodyTextControlUnits(t *testing.T) {
	// "A" tab "B", then a one-unit control (13), then "C". The tab stays
	// in the text, the control is skipped.
	units := []uint16{'A', 9, 'B', 13, 'C'}
	payload := make([]byte, 0, len(units)*2)
	for _, u := range units {
		payload = binary.LittleEndian.AppendUint16(payload, u)
	}
	var stream []byte
	stream = append(stream, record(HWPTAG_PARAGRAPH, 0, paraHeader(0, 0))...)
	stream = append(stream, record(HWPTAG_PARA_TEXT, 1, payload)...)

	section, err := parseBodyText(stream, NewDocument())
	if err != nil {
		t.Fatalf("parseBodyText: %v", err)
	}
	para := section.Blocks[0].(*Paragraph)
	if len(para.Inlines) != 2 {
		t.Fatalf("inlines = %d, want 2 runs split at the control", len(para.Inlines))
	}
	if got := para.Inlines[0].(*TextRun).Text; got != "A\tB" {
		t.Errorf("first run = %q, want \"A\\tB\"", got)
	}
	if got := para.Inlines[1].(*TextRun).Text; got != "C" {
		t.Errorf("second run = %q, want \"C\"", got)
	}
}

func TestParseBodyTextExtendedControlConsumesEightUnits(t *testing.T) {
	// Unit 4 opens an eight-unit inline control; the seven payload units
	// spell text that must not leak into the paragraph.
	units := []uint16{'X', 4, 'd', 'a', 'n', 'g', 'e', 'r', '!', 'Y'}
	payload := make([]byte, 0, len(units)*2)
	for _, u := range units {
		payload = binary.LittleEndian.AppendUint16(payload, u)
	}
	var stream []byte
	stream = append(stream, record(HWPTAG_PARAGRAPH, 0, paraHeader(0, 0))...)
	stream = append(stream, record(HWPTAG_PARA_TEXT, 1, payload)...)

	section, err := parseBodyText(stream, NewDocument())
	if err != nil {
		t.Fatalf("parseBodyText: %v", err)
	}
	para := section.Blocks[0].(*Paragraph)
	var text string
	for _, inl := range para.Inlines {
		text += inl.(*TextRun).Text
	}
	if text != "XY" {
		t.Errorf("text = %q, want \"XY\"", text)
	}
}

// tableCtrlHeader builds a CTRL_HEADER payload for the table control. The
// FourCC is stored byte-reversed on the wire.
func tableCtrlHeader() []byte {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint32(payload, uint32('t')<<24|uint32('b')<<16|uint32('l')<<8|uint32(' '))
	return payload
}

// tableDef builds a TABLE payload with the given grid dimensions.
func tableDef(rows, cols uint16) []byte {
	payload := make([]byte, 10)
	binary.LittleEndian.PutUint16(payload[4:], rows)
	binary.LittleEndian.PutUint16(payload[6:], cols)
	return payload
}

// tableCellDef builds a TABLE_CELL payload at (row, col) with spans.
func tableCellDef(col, row, colSpan, rowSpan uint16) []byte {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint16(payload[0:], col)
	binary.LittleEndian.PutUint16(payload[2:], row)
	binary.LittleEndian.PutUint16(payload[4:], colSpan)
	binary.LittleEndian.PutUint16(payload[6:], rowSpan)
	return payload
}

func TestParseBodyTextTable(t *testing.T) {
	var stream []byte
	stream = append(stream, record(HWPTAG_PARAGRAPH, 0, paraHeader(0, 0))...)
	stream = append(stream, record(HWPTAG_CTRL_HEADER, 1, tableCtrlHeader())...)
	stream = append(stream, record(HWPTAG_TABLE, 2, tableDef(1, 2))...)
	stream = append(stream, record(HWPTAG_LIST_HEADER, 2, nil)...)
	stream = append(stream, record(HWPTAG_TABLE_CELL, 2, tableCellDef(0, 0, 1, 1))...)
	stream = append(stream, record(HWPTAG_PARAGRAPH, 3, paraHeader(0, 0))...)
	stream = append(stream, record(HWPTAG_PARA_TEXT, 4, utf16le("cell A"))...)
	stream = append(stream, record(HWPTAG_LIST_HEADER, 2, nil)...)
	stream = append(stream, record(HWPTAG_TABLE_CELL, 2, tableCellDef(1, 0, 1, 1))...)
	stream = append(stream, record(HWPTAG_PARAGRAPH, 3, paraHeader(0, 0))...)
	stream = append(stream, record(HWPTAG_PARA_TEXT, 4, utf16le("cell B"))...)
	// A paragraph back at the top level closes the table.
	stream = append(stream, record(HWPTAG_PARAGRAPH, 0, paraHeader(0, 0))...)
	stream = append(stream, record(HWPTAG_PARA_TEXT, 1, utf16le("after"))...)

	section, err := parseBodyText(stream, NewDocument())
	if err != nil {
		t.Fatalf("parseBodyText: %v", err)
	}

	// Expect: the opening paragraph, the table, the trailing paragraph.
	if len(section.Blocks) != 3 {
		t.Fatalf("blocks = %d, want 3", len(section.Blocks))
	}
	table, ok := section.Blocks[1].(*Table)
	if !ok {
		t.Fatalf("block 1 is %T, want *Table", section.Blocks[1])
	}
	if table.Rows != 1 || table.Cols != 2 {
		t.Errorf("table is %dx%d, want 1x2", table.Rows, table.Cols)
	}
	if len(table.Cells) != 2 {
		t.Fatalf("cells = %d, want 2", len(table.Cells))
	}
	for i, wantText := range []string{"cell A", "cell B"} {
		cell := table.Cells[i]
		if len(cell.Content) != 1 {
			t.Fatalf("cell %d content = %d blocks, want 1", i, len(cell.Content))
		}
		para := cell.Content[0].(*Paragraph)
		if got := para.Inlines[0].(*TextRun).Text; got != wantText {
			t.Errorf("cell %d text = %q, want %q", i, got, wantText)
		}
	}
	if table.Cells[1].Col != 1 {
		t.Errorf("second cell col = %d, want 1", table.Cells[1].Col)
	}

	after := section.Blocks[2].(*Paragraph)
	if got := after.Inlines[0].(*TextRun).Text; got != "after" {
		t.Errorf("trailing paragraph text = %q, want \"after\"", got)
	}
}

func TestParseBodyTextEmptyStream(t *testing.T) {
	section, err := parseBodyText(nil, NewDocument())
	if err != nil {
		t.Fatalf("parseBodyText(nil): %v", err)
	}
	if len(section.Blocks) != 0 {
		t.Errorf("blocks = %d, want 0", len(section.Blocks))
	}
	if section.PageWidth != 59528 || section.PageHeight != 84188 {
		t.Errorf("geometry = %dx%d, want A4 defaults", section.PageWidth, section.PageHeight)
	}
}

func TestParseBodyTextSectionDef(t *testing.T) {
	payload := make([]byte, 32)
	binary.LittleEndian.PutUint32(payload[8:], 30000)
	binary.LittleEndian.PutUint32(payload[12:], 40000)
	stream := record(HWPTAG_SECTION_DEF, 0, payload)

	section, err := parseBodyText(stream, NewDocument())
	if err != nil {
		t.Fatalf("parseBodyText: %v", err)
	}
	if section.PageWidth != 30000 || section.PageHeight != 40000 {
		t.Errorf("geometry = %dx%d, want 30000x40000", section.PageWidth, section.PageHeight)
	}
}
