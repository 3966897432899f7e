package htmlutil

import (
	"bytes"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

func removeNonPrintable(s string) string {
	newStr := strings.Builder{}
	for _, c := range s {
		if unicode.IsPrint(c) || unicode.IsSpace(c) {
			newStr.WriteRune(c)
		}
	}
	return newStr.String()
}

// NormalizeText trims s, drops non-printable runes and collapses runs of
// unicode whitespace (including non-breaking spaces) into a single space.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(removeNonPrintable(s)), " ")
}

// SelectionText is the normalized text of every node in sel.
func SelectionText(sel *goquery.Selection) string {
	var buffer bytes.Buffer
	for _, n := range sel.Nodes {
		getTextRecursive(n, &buffer)
	}
	return NormalizeText(buffer.String())
}

type Anchor struct {
	Name string
	Href string
}

// FirstAnchor returns the first <a> under sel. ok is false when there is
// no anchor, when it has no href, or when its text is empty.
func FirstAnchor(sel *goquery.Selection) (anchor Anchor, ok bool) {
	a := sel.Find("a").First()
	if a.Length() == 0 {
		return Anchor{}, false
	}
	href, exists := a.Attr("href")
	if !exists {
		return Anchor{}, false
	}
	name := SelectionText(a)
	if name == "" {
		return Anchor{}, false
	}
	return Anchor{Name: name, Href: href}, true
}

// LocateSection scans the elements matching headerSelector in document order
// and returns the next element sibling of the first header that satisfies
// match. ok is false when no header matches or the matching header is the
// last element of its parent.
func LocateSection(
	doc *goquery.Selection,
	headerSelector string,
	match func(header *goquery.Selection) bool,
) (section *goquery.Selection, ok bool) {
	var found *goquery.Selection
	doc.Find(headerSelector).EachWithBreak(func(_ int, header *goquery.Selection) bool {
		if !match(header) {
			return true
		}
		found = header
		return false
	})
	if found == nil {
		return nil, false
	}

	section = found.Next()
	if section.Length() == 0 {
		return nil, false
	}
	return section, true
}

// HeadingContains matches headers whose first `heading` descendant contains substr.
func HeadingContains(heading, substr string) func(*goquery.Selection) bool {
	return func(header *goquery.Selection) bool {
		h := header.Find(heading).First()
		if h.Length() == 0 {
			return false
		}
		return strings.Contains(SelectionText(h), substr)
	}
}

// HeadingEquals matches headers whose first `heading` descendant has exactly the text title.
func HeadingEquals(heading, title string) func(*goquery.Selection) bool {
	return func(header *goquery.Selection) bool {
		h := header.Find(heading).First()
		if h.Length() == 0 {
			return false
		}
		return SelectionText(h) == title
	}
}
