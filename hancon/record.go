package hancon

import "fmt"

// HWP record tag ids. The 0-31 range holds the DocInfo tags and the
// control, list, cell and section tags (7, 9, 10, 11) that BodyText streams
// also carry; paragraph and shape records use 50-72. Ids absent from this
// block still round-trip
// through the reader; TagName synthesises a name for them.
const (
	HWPTAG_ID                        = 0
	HWPTAG_DOCINFO_PARA_TEXT         = 3
	HWPTAG_DOCINFO_PARA_CHAR_SHAPE   = 4
	HWPTAG_CTRL_HEADER               = 7
	HWPTAG_LIST_HEADER               = 9
	HWPTAG_TABLE_CELL                = 10
	HWPTAG_SECTION_DEF               = 11
	HWPTAG_DOC_INFO                  = 16
	HWPTAG_ID_MAPPINGS               = 17
	HWPTAG_BIN_DATA                  = 18
	HWPTAG_FACE_NAME                 = 19
	HWPTAG_BORDER_FILL               = 20
	HWPTAG_CHAR_SHAPE                = 21
	HWPTAG_TAB_DEF                   = 22
	HWPTAG_NUMBERING                 = 23
	HWPTAG_BULLET                    = 24
	HWPTAG_PARA_SHAPE                = 25
	HWPTAG_STYLE                     = 26
	HWPTAG_DOC_DATA                  = 27
	HWPTAG_DISTRIBUTE_DOC_DATA       = 28
	HWPTAG_COMPATIBLE_DOC_DATA       = 30
	HWPTAG_LAYOUT_COMPATIBILITY      = 31
	HWPTAG_PARAGRAPH                 = 50
	HWPTAG_PARA_TEXT                 = 51
	HWPTAG_PARA_CHAR_SHAPE           = 52
	HWPTAG_PARA_LINE_SEG             = 53
	HWPTAG_PARA_RANGE_TAG            = 54
	HWPTAG_TABLE                     = 61
	HWPTAG_SHAPE_COMPONENT_RECT      = 62
	HWPTAG_SHAPE_COMPONENT_ELLIPSE   = 63
	HWPTAG_SHAPE_COMPONENT_ARC       = 64
	HWPTAG_SHAPE_COMPONENT_POLYGON   = 65
	HWPTAG_SHAPE_COMPONENT_CURVE     = 66
	HWPTAG_SHAPE_COMPONENT_OLE       = 67
	HWPTAG_SHAPE_COMPONENT_PICTURE   = 68
	HWPTAG_SHAPE_COMPONENT_CONTAINER = 69
	HWPTAG_CTRL_DATA                 = 70
	HWPTAG_EQEDIT                    = 71
	HWPTAG_SHAPE_COMPONENT_TEXTBOX   = 72
)

var tagNameFromID = map[uint16]string{
	HWPTAG_ID:                        "HWP_ID",
	HWPTAG_DOCINFO_PARA_TEXT:         "HWPTAG_PARA_TEXT",
	HWPTAG_DOCINFO_PARA_CHAR_SHAPE:   "HWPTAG_PARA_CHAR_SHAPE",
	5:                                "HWPTAG_PARA_LINE_SEG",
	6:                                "HWPTAG_PARA_RANGE_TAG",
	HWPTAG_CTRL_HEADER:               "HWPTAG_CTRL_HEADER",
	HWPTAG_LIST_HEADER:               "HWPTAG_LIST_HEADER",
	HWPTAG_TABLE_CELL:                "HWPTAG_TABLE_CELL",
	HWPTAG_SECTION_DEF:               "HWPTAG_SECTION_DEF",
	HWPTAG_DOC_INFO:                  "HWPTAG_DOC_INFO",
	HWPTAG_ID_MAPPINGS:               "HWPTAG_ID_MAPPINGS",
	HWPTAG_BIN_DATA:                  "HWPTAG_BIN_DATA",
	HWPTAG_FACE_NAME:                 "HWPTAG_FACE_NAME",
	HWPTAG_BORDER_FILL:               "HWPTAG_BORDER_FILL",
	HWPTAG_CHAR_SHAPE:                "HWPTAG_CHAR_SHAPE",
	HWPTAG_TAB_DEF:                   "HWPTAG_TAB_DEF",
	HWPTAG_NUMBERING:                 "HWPTAG_NUMBERING",
	HWPTAG_BULLET:                    "HWPTAG_BULLET",
	HWPTAG_PARA_SHAPE:                "HWPTAG_PARA_SHAPE",
	HWPTAG_STYLE:                     "HWPTAG_STYLE",
	HWPTAG_DOC_DATA:                  "HWPTAG_DOC_DATA",
	HWPTAG_DISTRIBUTE_DOC_DATA:       "HWPTAG_DISTRIBUTE_DOC_DATA",
	29:                               "HWPTAG_RESERVED",
	HWPTAG_COMPATIBLE_DOC_DATA:       "HWPTAG_COMPATIBLE_DOC_DATA",
	HWPTAG_LAYOUT_COMPATIBILITY:      "HWPTAG_LAYOUT_COMPATIBILITY",
	HWPTAG_PARAGRAPH:                 "HWPTAG_PARAGRAPH",
	HWPTAG_PARA_TEXT:                 "HWPTAG_PARA_TEXT",
	HWPTAG_PARA_CHAR_SHAPE:           "HWPTAG_PARA_CHAR_SHAPE",
	HWPTAG_PARA_LINE_SEG:             "HWPTAG_PARA_LINE_SEG",
	HWPTAG_PARA_RANGE_TAG:            "HWPTAG_PARA_RANGE_TAG",
	HWPTAG_TABLE:                     "HWPTAG_TABLE",
	HWPTAG_SHAPE_COMPONENT_RECT:      "HWPTAG_SHAPE_COMPONENT_RECT",
	HWPTAG_SHAPE_COMPONENT_ELLIPSE:   "HWPTAG_SHAPE_COMPONENT_ELLIPSE",
	HWPTAG_SHAPE_COMPONENT_ARC:       "HWPTAG_SHAPE_COMPONENT_ARC",
	HWPTAG_SHAPE_COMPONENT_POLYGON:   "HWPTAG_SHAPE_COMPONENT_POLYGON",
	HWPTAG_SHAPE_COMPONENT_CURVE:     "HWPTAG_SHAPE_COMPONENT_CURVE",
	HWPTAG_SHAPE_COMPONENT_OLE:       "HWPTAG_SHAPE_COMPONENT_OLE",
	HWPTAG_SHAPE_COMPONENT_PICTURE:   "HWPTAG_SHAPE_COMPONENT_PICTURE",
	HWPTAG_SHAPE_COMPONENT_CONTAINER: "HWPTAG_SHAPE_COMPONENT_CONTAINER",
	HWPTAG_CTRL_DATA:                 "HWPTAG_CTRL_DATA",
	HWPTAG_EQEDIT:                    "HWPTAG_EQEDIT",
	HWPTAG_SHAPE_COMPONENT_TEXTBOX:   "HWPTAG_SHAPE_COMPONENT_TEXTBOX",
}

// TagName returns the symbolic name of a record tag id, synthesising
// "HWPTAG_<id>" for ids outside the catalogue.
func TagName(tagid uint16) string {
	if name, ok := tagNameFromID[tagid]; ok {
		return name
	}
	return fmt.Sprintf("HWPTAG_%d", tagid)
}

// Record is one frame of an HWP record stream. Payload aliases the reader's
// buffer; callers that outlive the buffer must copy it.
type Record struct {
	TagID   uint16
	Level   uint16
	Size    uint32
	Payload []byte
}

// TagName returns the symbolic name of the record's tag.
func (r *Record) TagName() string {
	return TagName(r.TagID)
}

// RecordReader iterates the records of one HWP stream.
//
// Each record starts with a 4-byte header packing tagid (10 bits), level
// (10 bits) and size (12 bits). A size field of 4095 means the real size
// follows as a 4-byte little-endian value and the 12-bit field is
// discarded.
type RecordReader struct {
	data []byte
	pos  int
}

// NewRecordReader returns a reader positioned at the start of data.
func NewRecordReader(data []byte) *RecordReader {
	return &RecordReader{data: data}
}

// Next returns the next record, or (nil, nil) when the cursor sits exactly
// at the end of the stream. A header or payload extending past the buffer
// is a parse error.
func (rr *RecordReader) Next() (*Record, error) {
	if rr.pos >= len(rr.data) {
		return nil, nil
	}

	header, ok := readU32(rr.data, rr.pos)
	if !ok {
		return nil, NewHwpError(ErrParse, "truncated record header at offset %d", rr.pos)
	}

	tagid := uint16(header & 0x3FF)
	level := uint16((header >> 10) & 0x3FF)
	size := header >> 20
	headerSize := 4

	if size == 4095 {
		ext, ok := readU32(rr.data, rr.pos+4)
		if !ok {
			return nil, NewHwpError(ErrParse, "truncated extended record size at offset %d", rr.pos)
		}
		size = ext
		headerSize = 8
	}

	payloadStart := rr.pos + headerSize
	payloadEnd := payloadStart + int(size)
	if int(size) < 0 || payloadEnd > len(rr.data) {
		return nil, NewHwpError(ErrParse,
			"record payload out of bounds: pos=%d, header_size=%d, size=%d", rr.pos, headerSize, size)
	}

	rr.pos = payloadEnd
	return &Record{
		TagID:   tagid,
		Level:   level,
		Size:    size,
		Payload: rr.data[payloadStart:payloadEnd],
	}, nil
}

// Position returns the cursor offset into the stream.
func (rr *RecordReader) Position() int {
	return rr.pos
}

// Remaining returns the number of unread bytes.
func (rr *RecordReader) Remaining() int {
	return len(rr.data) - rr.pos
}
