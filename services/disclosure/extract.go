package disclosure

import (
	"bytes"
	"context"
	"fmt"
	"fulldisclosure-backend/lib/htmlutil"
	"strconv"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
)

// Document is one row of a listing. Year is only set for yearly sources.
type Document struct {
	Year  int     `json:"year,omitempty"`
	Title string  `json:"title"`
	Link  string  `json:"link"`
	UUID  *string `json:"uuid"`
	Views *string `json:"views"`
}

const (
	yearHeaderSelector     = ".card-header"
	categoryHeaderSelector = ".col-md-12.text-center"
)

func parsePage(contents []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(contents))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	return doc, nil
}

// parseRow turns a row into a Document, ok is false when the row has no
// usable anchor.
func parseRow(row *goquery.Selection) (Document, bool) {
	anchor, ok := htmlutil.FirstAnchor(row)
	if !ok {
		return Document{}, false
	}

	doc := Document{
		Title: anchor.Name,
		Link:  anchor.Href,
	}
	if uuid, exists := row.Find("a").First().Attr("data-uuid"); exists {
		doc.UUID = &uuid
	}
	cells := row.Find("td")
	if cells.Length() > 1 {
		views := htmlutil.SelectionText(cells.Eq(1))
		doc.Views = &views
	}
	return doc, true
}

// ExtractYears collects the rows of every year section from start to end
// inclusive, in ascending year order. Years without a section are skipped.
func ExtractYears(ctx context.Context, doc *goquery.Document, start, end int) []Document {
	_, span := tracer.Start(ctx, "ExtractYears")
	defer span.End()
	span.SetAttributes(
		attribute.Int("start_year", start),
		attribute.Int("end_year", end),
	)

	var out []Document
	for year := start; year <= end; year++ {
		section, ok := htmlutil.LocateSection(
			doc.Selection,
			yearHeaderSelector,
			htmlutil.HeadingContains("h2", strconv.Itoa(year)),
		)
		if !ok {
			continue
		}
		section.Find("tr").Each(func(_ int, row *goquery.Selection) {
			record, ok := parseRow(row)
			if !ok {
				return
			}
			record.Year = year
			out = append(out, record)
		})
	}

	span.SetAttributes(attribute.Int("records", len(out)))
	return out
}

// ExtractCategory collects the rows of a bids-and-awards category section,
// found is false when the page has no section titled category.Title.
func ExtractCategory(ctx context.Context, doc *goquery.Document, category Category) (records []Document, found bool) {
	_, span := tracer.Start(ctx, "ExtractCategory")
	defer span.End()
	span.SetAttributes(attribute.String("category", category.ID))

	section, ok := htmlutil.LocateSection(
		doc.Selection,
		categoryHeaderSelector,
		htmlutil.HeadingEquals("h1", category.Title),
	)
	if !ok {
		return nil, false
	}

	rowTag := category.RowTag
	if rowTag == "" {
		rowTag = "tr"
	}
	section.Find(rowTag).Each(func(_ int, row *goquery.Selection) {
		record, ok := parseRow(row)
		if !ok {
			return
		}
		records = append(records, record)
	})

	span.SetAttributes(attribute.Int("records", len(records)))
	return records, true
}
