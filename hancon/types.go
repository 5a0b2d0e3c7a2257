package hancon

import "fmt"

// HwpUnit is the abstract length unit used throughout the document model:
// 1 unit = 1/7200 inch. Conversions to display units are lossy.
type HwpUnit int32

// ToMM converts the unit to millimetres.
func (u HwpUnit) ToMM() float64 {
	return float64(u) * 25.4 / 7200.0
}

// ToPt converts the unit to points.
func (u HwpUnit) ToPt() float64 {
	return float64(u) / 20.0
}

// Color is a packed 24-bit colour in 0xBBGGRR layout (red in the low byte).
type Color uint32

// ColorFromBGR builds a Color from individual channels.
func ColorFromBGR(b, g, r uint8) Color {
	return Color(uint32(b)<<16 | uint32(g)<<8 | uint32(r))
}

// Hex renders the colour as #RRGGBB for XML attributes.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R(), c.G(), c.B())
}

func (c Color) R() uint8 { return uint8(c & 0xFF) }
func (c Color) G() uint8 { return uint8((c >> 8) & 0xFF) }
func (c Color) B() uint8 { return uint8((c >> 16) & 0xFF) }

// Margin groups the four page or object margins.
type Margin struct {
	Left   HwpUnit
	Top    HwpUnit
	Right  HwpUnit
	Bottom HwpUnit
}

// Rect is an axis-aligned rectangle in HwpUnits.
type Rect struct {
	X0, Y0, X1, Y1 HwpUnit
}

func (r Rect) Width() HwpUnit  { return r.X1 - r.X0 }
func (r Rect) Height() HwpUnit { return r.Y1 - r.Y0 }

// Alignment is the horizontal paragraph alignment.
type Alignment uint16

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
	AlignJustify
	AlignDistribute
)

// ODTString returns the fo:text-align value for the alignment.
func (a Alignment) ODTString() string {
	switch a {
	case AlignRight:
		return "right"
	case AlignCenter:
		return "center"
	case AlignJustify:
		return "justify"
	case AlignDistribute:
		return "distribute"
	default:
		return "left"
	}
}

// LineStyle is the border or underline line style.
type LineStyle uint16

const (
	LineNone LineStyle = iota
	LineSolid
	LineDotted
	LineDashed
	LineDashDot
	LineDashDotDot
	LineDouble
	LineWave
)

// ODTString returns the ODT border-style keyword for the line style.
func (s LineStyle) ODTString() string {
	switch s {
	case LineSolid:
		return "solid"
	case LineDotted:
		return "dotted"
	case LineDashed:
		return "dashed"
	case LineDashDot:
		return "dash-dot"
	case LineDashDotDot:
		return "dash-dot-dot"
	case LineDouble:
		return "double"
	case LineWave:
		return "wave"
	default:
		return "none"
	}
}

// FillType selects how a border-fill paints its background.
type FillType uint16

const (
	FillNone FillType = iota
	FillSolid
	FillPattern
	FillGradient
	FillImage
)

// StyleType distinguishes the kinds of named styles in DocInfo.
type StyleType uint16

const (
	StyleParagraph StyleType = iota
	StyleCharacter
	StyleTable
	StyleList
)
