package extract

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
)

var converter = md.NewConverter("", true, nil)

// Flatten turns a detail overlay's HTML into plain text the field
// patterns can run over. HTML is converted through the markdown
// converter so headings, lists and tables keep their textual content;
// if conversion fails the tags are stripped instead.
func Flatten(html string) string {
	text, err := converter.ConvertString(html)
	if err != nil {
		doc, perr := goquery.NewDocumentFromReader(strings.NewReader(html))
		if perr != nil {
			return normalizeLines(html)
		}
		return normalizeLines(doc.Text())
	}
	return normalizeLines(text)
}

// normalizeLines trims each line and drops blank ones, keeping line
// boundaries so line-anchored patterns stay bounded.
func normalizeLines(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
