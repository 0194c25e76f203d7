package gdocs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/docs/v1"
)

const testAnchor = "Accept changes and mark as ready for review by Fohr"

func paragraph(runs ...*docs.ParagraphElement) *docs.StructuralElement {
	return &docs.StructuralElement{
		Paragraph: &docs.Paragraph{Elements: runs},
	}
}

func run(start int64, content string) *docs.ParagraphElement {
	return &docs.ParagraphElement{
		StartIndex: start,
		EndIndex:   start + int64(len(content)),
		TextRun:    &docs.TextRun{Content: content},
	}
}

func boldRun(start int64, content string) *docs.ParagraphElement {
	el := run(start, content)
	el.TextRun.TextStyle = &docs.TextStyle{Bold: true}
	return el
}

func TestFindAnchorRange(t *testing.T) {
	content := []*docs.StructuralElement{
		paragraph(run(1, "Campaign Contract\n")),
		paragraph(run(19, testAnchor+"\n")),
		paragraph(run(80, "Terms and conditions\n")),
	}

	start, end, found := findAnchorRange(content, testAnchor, anchorScanLimit)

	require.True(t, found)
	assert.Equal(t, int64(19), start)
	assert.Equal(t, int64(19+len(testAnchor)), end)
}

func TestFindAnchorRange_NotPresent(t *testing.T) {
	content := []*docs.StructuralElement{
		paragraph(run(1, "Campaign Contract\n")),
	}

	_, _, found := findAnchorRange(content, testAnchor, anchorScanLimit)

	assert.False(t, found)
}

func TestFindAnchorRange_BeyondScanLimitIsIgnored(t *testing.T) {
	content := []*docs.StructuralElement{
		paragraph(run(1, "one\n")),
		paragraph(run(5, "two\n")),
		paragraph(run(9, "three\n")),
		paragraph(run(15, "four\n")),
		paragraph(run(20, "five\n")),
		paragraph(run(25, testAnchor+"\n")),
	}

	_, _, found := findAnchorRange(content, testAnchor, anchorScanLimit)

	assert.False(t, found)
}

func TestFindAnchorRange_SkipsNonParagraphElements(t *testing.T) {
	content := []*docs.StructuralElement{
		{Table: &docs.Table{}},
		paragraph(run(10, testAnchor)),
	}

	start, _, found := findAnchorRange(content, testAnchor, anchorScanLimit)

	require.True(t, found)
	assert.Equal(t, int64(10), start)
}

func TestCollectBoldRanges(t *testing.T) {
	content := []*docs.StructuralElement{
		paragraph(run(1, "plain "), boldRun(7, "bold"), run(11, " trailing\n")),
		paragraph(boldRun(21, "heading\n")),
	}

	ranges := collectBoldRanges(content)

	require.Len(t, ranges, 2)
	assert.Equal(t, textRange{start: 7, end: 11}, ranges[0])
	assert.Equal(t, textRange{start: 21, end: 29}, ranges[1])
}

func TestLastContentIndex(t *testing.T) {
	content := []*docs.StructuralElement{
		{EndIndex: 40},
		{EndIndex: 120},
	}

	assert.Equal(t, int64(120), lastContentIndex(content))
	assert.Equal(t, int64(0), lastContentIndex(nil))
}
