package disclosure

// Shape describes how a source page groups its rows.
type Shape int

const (
	// ShapeYearly pages have one `.card-header` section per year.
	ShapeYearly Shape = iota
	// ShapeCategorized pages have one `.col-md-12.text-center` section per category.
	ShapeCategorized
)

type Source struct {
	ID    string
	URL   string
	Shape Shape
}

const SourceBidsAndAwards = "bids-and-awards"

// Sources is the fixed set of upstream pages, yearly sources first.
var Sources = []Source{
	{ID: "resolutions", URL: "https://pasigcity.gov.ph/city-resolutions", Shape: ShapeYearly},
	{ID: "ordinances", URL: "https://pasigcity.gov.ph/city-ordinances", Shape: ShapeYearly},
	{ID: "executive-orders", URL: "https://pasigcity.gov.ph/executive-orders", Shape: ShapeYearly},
	{ID: SourceBidsAndAwards, URL: "https://pasigcity.gov.ph/bids-and-awards", Shape: ShapeCategorized},
}

func LookupSource(id string) (Source, bool) {
	for _, s := range Sources {
		if s.ID == id {
			return s, true
		}
	}
	return Source{}, false
}

func SourceIDs() []string {
	ids := make([]string, len(Sources))
	for i, s := range Sources {
		ids[i] = s.ID
	}
	return ids
}

// DocumentPaths are the source ids served from GET /{path}.
func DocumentPaths() []string {
	var paths []string
	for _, s := range Sources {
		if s.Shape == ShapeYearly {
			paths = append(paths, s.ID)
		}
	}
	return paths
}

type Category struct {
	ID    string
	Title string
	// RowTag is the element each row of the section is rendered as.
	RowTag string
}

// Categories of the bids-and-awards page. The upstream renders "Other Notices"
// as a list while every other category is a table, this is kept as a lookup
// rather than sniffed from the markup.
var Categories = []Category{
	{ID: "annual-procurement-plan", Title: "Annual Procurement Plan", RowTag: "tr"},
	{ID: "procurement-monitoring-report", Title: "Procurement Monitoring Report", RowTag: "tr"},
	{ID: "bid-bulletin", Title: "Bid Bulletin", RowTag: "tr"},
	{ID: "invitation-to-bid", Title: "Invitation to Bid", RowTag: "tr"},
	{ID: "request-for-quotation", Title: "Request for Quotation", RowTag: "tr"},
	{ID: "notice-of-awards", Title: "Notice of Awards", RowTag: "tr"},
	{ID: "notice-to-proceed", Title: "Notice to Proceed", RowTag: "tr"},
	{ID: "purchase-order-of-contract", Title: "Purchase Order of Contract", RowTag: "tr"},
	{ID: "other-notices", Title: "Other Notices", RowTag: "li"},
}

func LookupCategory(id string) (Category, bool) {
	for _, c := range Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

func CategoryIDs() []string {
	ids := make([]string, len(Categories))
	for i, c := range Categories {
		ids[i] = c.ID
	}
	return ids
}
