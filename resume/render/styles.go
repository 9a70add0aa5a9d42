package render

import "baliance.com/gooxml/measurement"

// RunStyle captures the inline run formatting for one kind of block.
// Size is in half-points, as Word stores it.
type RunStyle struct {
	Bold      bool
	Italic    bool
	Underline bool
	Size      int
	Color     string
}

const (
	HeadingColor = "1F2937"
	NameColor    = "111111"
	BodyColor    = "374151"
	MutedColor   = "4B5563"
	HeadingSize  = 24
	NameSize     = 32
	BodySize     = 21
	FontFamily   = "Calibri"

	BulletGlyph = "•"
)

// Paragraph spacing, in points.
const (
	HeadingSpacingBefore = 12
	HeadingSpacingAfter  = 4
	EntrySpacingBefore   = 6
	BodySpacingAfter     = 2
)

// Style keys used by Block.Style.
const (
	StyleName    = "name"
	StyleContact = "contact"
	StyleHeading = "sectionHeading"
	StyleBody    = "body"
	StyleEntry   = "roleLine"
	StyleDates   = "meta"
	StyleBullet  = "bullet"
)

// StyleMap centralizes the formatting for key resume elements.
var StyleMap = map[string]RunStyle{
	StyleName: {
		Bold:  true,
		Size:  NameSize,
		Color: NameColor,
	},
	StyleContact: {
		Size:  BodySize,
		Color: MutedColor,
	},
	StyleHeading: {
		Bold:      true,
		Underline: true,
		Size:      HeadingSize,
		Color:     HeadingColor,
	},
	StyleBody: {
		Size:  BodySize,
		Color: BodyColor,
	},
	StyleEntry: {
		Bold:  true,
		Size:  BodySize,
		Color: NameColor,
	},
	StyleDates: {
		Italic: true,
		Size:   BodySize,
		Color:  MutedColor,
	},
	StyleBullet: {
		Size:  BodySize,
		Color: BodyColor,
	},
}

func points(n float64) measurement.Distance {
	return measurement.Distance(n) * measurement.Point
}
