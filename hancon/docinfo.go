package hancon

// parseDocInfo consumes the record stream of the DocInfo stream and fills
// the document's identifier tables. The id of each entity is its ordinal
// position in its table. Tags outside the dispatch set are ignored; the
// stream may carry ids this build has never heard of.
func parseDocInfo(data []byte, doc *Document) error {
	rr := NewRecordReader(data)
	for {
		rec, err := rr.Next()
		if err != nil {
			return err
		}
		if rec == nil {
			return nil
		}

		switch rec.TagID {
		case HWPTAG_FACE_NAME:
			doc.Fonts = append(doc.Fonts, parseFaceName(rec.Payload))
		case HWPTAG_BORDER_FILL:
			doc.BorderFills = append(doc.BorderFills, parseBorderFill(rec.Payload, uint32(len(doc.BorderFills))))
		case HWPTAG_CHAR_SHAPE:
			doc.CharShapes = append(doc.CharShapes, parseCharShape(rec.Payload, uint32(len(doc.CharShapes))))
		case HWPTAG_PARA_SHAPE:
			doc.ParaShapes = append(doc.ParaShapes, parseParaShape(rec.Payload, uint32(len(doc.ParaShapes))))
		case HWPTAG_STYLE:
			doc.Styles = append(doc.Styles, parseStyle(rec.Payload, uint32(len(doc.Styles))))
		}
	}
}

// parseFaceName decodes a FACE_NAME payload: a UTF-16LE face name,
// NUL-trimmed. An odd trailing byte is dropped.
func parseFaceName(payload []byte) string {
	if len(payload)%2 != 0 {
		payload = payload[:len(payload)-1]
	}
	return decodeUTF16LE(payload)
}

// parseCharShape decodes a CHAR_SHAPE payload. Identifier assignment is the
// contract; the leading fields are decoded when the payload is long enough
// and left at defaults otherwise, so cross-references always resolve.
//
// Layout (HWP 5.0 spec, leading fields): face ids for 7 scripts (u16 each),
// ratios and spacing per script, then base size (i32, hwpunit) at offset 42
// and the attribute bits (u32) at offset 46.
func parseCharShape(payload []byte, id uint32) *CharShape {
	cs := NewCharShape(id)
	if len(payload) < 28 {
		return cs
	}

	if fontID, ok := readU16(payload, 0); ok {
		cs.FontID = uint32(fontID)
	}
	if size, ok := readI32(payload, 42); ok && size > 0 {
		cs.FontSize = HwpUnit(size)
	}
	if attr, ok := readU32(payload, 46); ok {
		cs.Italic = attr&0x01 != 0
		cs.Bold = attr&0x02 != 0
		underline := (attr >> 2) & 0x03
		if underline != 0 {
			cs.Underline = LineSolid
		}
		cs.Strikethrough = (attr>>18)&0x07 != 0
	}
	if color, ok := readU32(payload, 52); ok {
		cs.Color = Color(color & 0xFFFFFF)
	}
	return cs
}

// parseParaShape decodes a PARA_SHAPE payload: attribute bits (u32) first,
// with the alignment in bits 2-4, then the left, right and first-line
// indents (i32 each).
func parseParaShape(payload []byte, id uint32) *ParaShape {
	ps := NewParaShape(id)
	if len(payload) == 0 {
		return ps
	}

	if attr, ok := readU32(payload, 0); ok {
		if align := (attr >> 2) & 0x07; align <= uint32(AlignDistribute) {
			ps.Alignment = Alignment(align)
		}
	}
	if v, ok := readI32(payload, 4); ok {
		ps.IndentLeft = HwpUnit(v)
	}
	if v, ok := readI32(payload, 8); ok {
		ps.IndentRight = HwpUnit(v)
	}
	if v, ok := readI32(payload, 12); ok {
		ps.IndentFirst = HwpUnit(v)
	}
	return ps
}

// parseStyle decodes a STYLE payload: a length-prefixed UTF-16LE local name
// (u16 count of code units), then the English name, then ids. Short or
// malformed payloads yield an unnamed default style.
func parseStyle(payload []byte, id uint32) *Style {
	st := NewStyle(id)

	nameLen, ok := readU16(payload, 0)
	if !ok {
		return st
	}
	nameEnd := 2 + int(nameLen)*2
	if nameEnd <= len(payload) {
		st.Name = decodeUTF16LE(payload[2:nameEnd])
	}
	return st
}

// parseBorderFill decodes a BORDER_FILL payload. The current contract is a
// correctly-sized default entry; only the fill kind is inspected.
func parseBorderFill(payload []byte, id uint32) *BorderFill {
	bf := NewBorderFill(id)
	if kind, ok := readU32(payload, 2); ok && kind <= uint32(FillImage) {
		bf.Fill = FillType(kind)
	}
	return bf
}
