package gdocs

import (
	"strings"

	"google.golang.org/api/docs/v1"
)

// anchorScanLimit caps how many structural elements are scanned for
// the anchor phrase; it always sits in the first few paragraphs.
const anchorScanLimit = 5

type textRange struct {
	start int64
	end   int64
}

// findAnchorRange locates the anchor phrase within the first limit
// structural elements and returns the content range covering it.
func findAnchorRange(content []*docs.StructuralElement, anchor string, limit int) (int64, int64, bool) {
	if limit > len(content) {
		limit = len(content)
	}

	for _, element := range content[:limit] {
		if element.Paragraph == nil {
			continue
		}
		for _, el := range element.Paragraph.Elements {
			if el.TextRun == nil {
				continue
			}
			if strings.Contains(el.TextRun.Content, anchor) {
				start := el.StartIndex
				return start, start + int64(len(anchor)), true
			}
		}
	}

	return 0, 0, false
}

// collectBoldRanges returns the ranges of every bold text run in order
func collectBoldRanges(content []*docs.StructuralElement) []textRange {
	var ranges []textRange
	for _, element := range content {
		if element.Paragraph == nil {
			continue
		}
		for _, el := range element.Paragraph.Elements {
			if el.TextRun == nil || el.TextRun.TextStyle == nil || !el.TextRun.TextStyle.Bold {
				continue
			}
			ranges = append(ranges, textRange{start: el.StartIndex, end: el.EndIndex})
		}
	}
	return ranges
}

// lastContentIndex returns the end index of the final structural element
func lastContentIndex(content []*docs.StructuralElement) int64 {
	if len(content) == 0 {
		return 0
	}
	return content[len(content)-1].EndIndex
}
