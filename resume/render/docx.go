package render

import (
	"bytes"
	"fmt"

	"baliance.com/gooxml/color"
	"baliance.com/gooxml/document"
	"baliance.com/gooxml/schema/soo/wml"

	"matchrate-backend/resume/record"
)

// MimeTypeDOCX is the content type of RenderDOCX output.
const MimeTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Build lays rec out as a Word document.
func Build(rec record.Record) *document.Document {
	doc := document.New()
	for _, b := range Layout(rec) {
		switch b.Kind {
		case BlockName, BlockContact:
			p := addParagraph(doc, b)
			p.Properties().SetAlignment(wml.ST_JcCenter)
		case BlockHeading:
			p := addParagraph(doc, b)
			p.Properties().Spacing().SetBefore(points(HeadingSpacingBefore))
			p.Properties().Spacing().SetAfter(points(HeadingSpacingAfter))
		case BlockEntry:
			addEntryRow(doc, b)
		default:
			p := addParagraph(doc, b)
			p.Properties().Spacing().SetAfter(points(BodySpacingAfter))
		}
	}
	return doc
}

// RenderDOCX returns rec as DOCX bytes.
func RenderDOCX(rec record.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := Build(rec).Save(&buf); err != nil {
		return nil, fmt.Errorf("save docx: %w", err)
	}
	return buf.Bytes(), nil
}

func addParagraph(doc *document.Document, b Block) document.Paragraph {
	p := doc.AddParagraph()
	addRun(p, b.Text, StyleMap[b.Style])
	return p
}

// addEntryRow writes a job header as a borderless two-column table so the
// dates sit right-aligned on the same line as the title.
func addEntryRow(doc *document.Document, b Block) {
	table := doc.AddTable()
	table.Properties().SetWidthPercent(100)
	table.Properties().Borders().SetAll(wml.ST_BorderNone, color.Auto, 0)

	row := table.AddRow()
	left := row.AddCell()
	left.Properties().SetWidthPercent(70)
	lp := left.AddParagraph()
	lp.Properties().Spacing().SetBefore(points(EntrySpacingBefore))
	addRun(lp, b.Text, StyleMap[StyleEntry])

	right := row.AddCell()
	right.Properties().SetWidthPercent(30)
	rp := right.AddParagraph()
	rp.Properties().SetAlignment(wml.ST_JcRight)
	rp.Properties().Spacing().SetBefore(points(EntrySpacingBefore))
	if b.Right != "" {
		addRun(rp, b.Right, StyleMap[StyleDates])
	}
}

func addRun(p document.Paragraph, text string, style RunStyle) document.Run {
	run := p.AddRun()
	props := run.Properties()
	props.SetFontFamily(FontFamily)
	if style.Bold {
		props.SetBold(true)
	}
	if style.Italic {
		props.SetItalic(true)
	}
	if style.Underline {
		props.SetUnderline(wml.ST_UnderlineSingle, color.Auto)
	}
	if style.Size > 0 {
		props.SetSize(points(float64(style.Size) / 2))
	}
	if style.Color != "" {
		props.SetColor(color.FromHex("#" + style.Color))
	}
	run.AddText(text)
	return run
}
