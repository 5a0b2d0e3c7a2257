package hancon

// Document is the in-memory representation of one HWP file. The five leading
// slices are identifier tables: a char-shape id, para-shape id, style id,
// font id or border-fill id anywhere in the tree is an index into the
// matching table. The writer emits ids as style names unchanged and does
// not check that they resolve. The model is built by the decoders and never
// mutated afterwards.
type Document struct {
	Fonts       []string
	Styles      []*Style
	CharShapes  []*CharShape
	ParaShapes  []*ParaShape
	BorderFills []*BorderFill
	Sections    []*Section
}

// NewDocument returns an empty document with all tables allocated.
func NewDocument() *Document {
	return &Document{
		Fonts:       []string{},
		Styles:      []*Style{},
		CharShapes:  []*CharShape{},
		ParaShapes:  []*ParaShape{},
		BorderFills: []*BorderFill{},
		Sections:    []*Section{},
	}
}

// Section corresponds to one BodyText/SectionN stream.
type Section struct {
	Blocks       []Block
	PageWidth    HwpUnit
	PageHeight   HwpUnit
	MarginTop    HwpUnit
	MarginBottom HwpUnit
	MarginLeft   HwpUnit
	MarginRight  HwpUnit
}

// NewSection returns a section with A4 geometry and one-inch margins.
func NewSection() *Section {
	return &Section{
		Blocks:       []Block{},
		PageWidth:    59528, // 210mm
		PageHeight:   84188, // 297mm
		MarginTop:    7200,
		MarginBottom: 7200,
		MarginLeft:   7200,
		MarginRight:  7200,
	}
}

// Block is one unit of block-level content: a Paragraph, Table or Shape.
type Block interface {
	isBlock()
}

func (*Paragraph) isBlock() {}
func (*Table) isBlock()     {}
func (*Shape) isBlock()     {}

// Paragraph holds a run of inline content under one paragraph shape.
type Paragraph struct {
	ID          uint32
	StyleID     uint32
	ParaShapeID uint32
	CharShapeID uint32
	Level       uint8
	Inlines     []Inline
}

// NewParagraph returns a paragraph with default shape references.
func NewParagraph(id uint32) *Paragraph {
	return &Paragraph{ID: id, Inlines: []Inline{}}
}

// Inline is one unit of inline content inside a paragraph.
type Inline interface {
	isInline()
}

func (*TextRun) isInline() {}
func (*Control) isInline() {}
func (Field) isInline()    {}

// TextRun is a span of text rendered with a single character shape.
type TextRun struct {
	Text        string
	CharShapeID uint32
}

// ControlKind tags the kind of an embedded control.
type ControlKind int

const (
	ControlTable ControlKind = iota
	ControlPicture
	ControlOLE
	ControlTextBox
	ControlEquation
)

// Control is an inline anchor for an embedded object. Only tables are
// decoded in depth; the rest carry their kind and binary-data id.
type Control struct {
	Kind      ControlKind
	Table     *Table
	BinDataID uint32
}

// Field is a computed inline value (page number, date and so on).
type Field int

const (
	FieldDate Field = iota
	FieldTime
	FieldPageNumber
	FieldPageCount
	FieldFootnoteNumber
)

// Table is a grid of cells. Cells may span multiple grid positions; the
// invariant is that every (row, col) with row < Rows and col < Cols is
// covered by exactly one cell rectangle.
type Table struct {
	ID           uint32
	Rows         int
	Cols         int
	Cells        []*TableCell
	BorderFillID uint32
}

// TableCell anchors at (Row, Col) and spans RowSpan x ColSpan positions.
// Content is a list of blocks; nested tables are allowed.
type TableCell struct {
	Row     int
	Col     int
	RowSpan int
	ColSpan int
	Content []Block
}

// ShapeKind tags the geometric shape variants.
type ShapeKind int

const (
	ShapeRectangle ShapeKind = iota
	ShapeEllipse
	ShapeArc
	ShapePolygon
	ShapeCurve
	ShapeContainer
)

// Shape is a drawing object. Shapes are carried through the model but the
// writer emits nothing for them.
type Shape struct {
	ID   uint32
	Kind ShapeKind
	Rect Rect
}

// CharShape is one entry of the character formatting table.
type CharShape struct {
	ID            uint32
	FontID        uint32
	FontSize      HwpUnit
	Bold          bool
	Italic        bool
	Underline     LineStyle
	Strikethrough bool
	Color         Color
	Background    Color
}

// NewCharShape returns the default character shape: 10pt black on white.
func NewCharShape(id uint32) *CharShape {
	return &CharShape{
		ID:         id,
		FontSize:   200,
		Background: 0xFFFFFF,
	}
}

// ParaShape is one entry of the paragraph formatting table.
type ParaShape struct {
	ID            uint32
	Alignment     Alignment
	IndentLeft    HwpUnit
	IndentRight   HwpUnit
	IndentFirst   HwpUnit
	SpacingBefore HwpUnit
	SpacingAfter  HwpUnit
	LineSpacing   uint16 // percent of line height
}

// NewParaShape returns the default paragraph shape: left-aligned, no indent.
func NewParaShape(id uint32) *ParaShape {
	return &ParaShape{ID: id, LineSpacing: 100}
}

// Style is one entry of the named style table.
type Style struct {
	ID          uint32
	Name        string
	Type        StyleType
	ParentID    uint32
	CharShapeID uint32
	ParaShapeID uint32
}

// NewStyle returns an unnamed paragraph style.
func NewStyle(id uint32) *Style {
	return &Style{ID: id}
}

// Border is one edge of a border-fill.
type Border struct {
	Style LineStyle
	Width uint8 // 1/20 mm
	Color Color
}

// BorderFill is one entry of the border/background table.
type BorderFill struct {
	ID         uint32
	Left       Border
	Right      Border
	Top        Border
	Bottom     Border
	Diagonal   Border
	Fill       FillType
	FillColor  Color
	Background Color
}

// NewBorderFill returns a border-fill with no borders and a white fill.
func NewBorderFill(id uint32) *BorderFill {
	return &BorderFill{ID: id, Background: 0xFFFFFF}
}
