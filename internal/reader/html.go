package reader

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"edoparser/internal/util"
)

const blockSelector = "p,div,tr,li,h1,h2,h3,h4,h5,h6,table,blockquote,pre"

// HTMLText flattens an HTML body into lines. Block elements end a line and table
// cells on the same row are separated by a space. Blank lines are dropped.
func HTMLText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", err
	}
	doc.Find("script,style,head").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("td,th").Each(func(_ int, cell *goquery.Selection) {
		cell.AppendHtml(" ")
	})
	doc.Find(blockSelector).Each(func(_ int, block *goquery.Selection) {
		block.AppendHtml("\n")
	})

	var lines []string
	for _, line := range util.SplitLines(doc.Text()) {
		if line = util.CollapseSpaces(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}
