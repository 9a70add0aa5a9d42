// Package render rebuilds a formatted resume document from a record.Record.
//
// Layout produces an ordered list of blocks; Build and PlainText both consume
// that list so the DOCX and text outputs never disagree on content or order.
package render

import (
	"strings"

	"matchrate-backend/resume/parse"
	"matchrate-backend/resume/record"
)

// BlockKind is the visual role of a layout block.
type BlockKind int

const (
	BlockName BlockKind = iota
	BlockContact
	BlockHeading
	BlockParagraph
	// BlockEntry is a job header row: Text on the left, Right on the right.
	BlockEntry
	BlockBullet
)

// Block is one visual line of the reconstructed resume.
type Block struct {
	Kind  BlockKind
	Text  string
	Right string
	Style string
}

// Layout returns the blocks for rec in the fixed order name, contact,
// summary, experience, skills, education and, when present, recognition.
func Layout(rec record.Record) []Block {
	rec = rec.WithDefaults()

	blocks := []Block{{Kind: BlockName, Text: rec.Name, Style: StyleName}}
	if contact := strings.TrimSpace(rec.Contact); contact != "" {
		blocks = append(blocks, Block{Kind: BlockContact, Text: contact, Style: StyleContact})
	}

	blocks = append(blocks, heading(parse.HeadingSummary))
	for _, line := range rec.Summary {
		blocks = append(blocks, Block{Kind: BlockParagraph, Text: line, Style: StyleBody})
	}

	blocks = append(blocks, heading(parse.HeadingExperience))
	for _, exp := range rec.Experiences {
		blocks = append(blocks, Block{Kind: BlockEntry, Text: entryLeft(exp), Right: exp.Dates, Style: StyleEntry})
		for _, b := range exp.Bullets {
			blocks = append(blocks, bullet(b))
		}
	}

	blocks = append(blocks, heading(parse.HeadingSkills))
	for _, s := range rec.Skills {
		blocks = append(blocks, bullet(s))
	}

	blocks = append(blocks, heading(parse.HeadingEducation))
	for _, e := range rec.Education {
		blocks = append(blocks, bullet(e))
	}

	if rec.HasRecognition() {
		blocks = append(blocks, heading(parse.HeadingRecognition))
		for _, r := range rec.Recognition {
			blocks = append(blocks, bullet(r))
		}
	}
	return blocks
}

func heading(text string) Block {
	return Block{Kind: BlockHeading, Text: text, Style: StyleHeading}
}

func bullet(text string) Block {
	return Block{Kind: BlockBullet, Text: BulletGlyph + " " + text, Style: StyleBullet}
}

// entryLeft joins title, company and location with pipes, skipping blanks.
func entryLeft(exp record.Experience) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{exp.Title, exp.Company, exp.LocationOr("")} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, " | ")
}
