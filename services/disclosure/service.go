package disclosure

import (
	"context"
	"errors"
	"fmt"
	"fulldisclosure-backend/lib/timezone"
	"log/slog"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	MinYear    = 2000
	MaxYear    = 2100
	DefaultTop = 500
	MaxTop     = 1000
)

const (
	apiName        = "Pasig City Full Disclosure API"
	apiVersion     = "1.0.0"
	apiDescription = "Cached, queryable listings of Pasig City resolutions, ordinances, executive orders and bids and awards notices."
)

type ServiceOptions = RefresherOptions

type Service struct {
	refresher *Refresher
	pages     PageStore
}

func NewService(opts ServiceOptions) Service {
	return Service{
		refresher: NewRefresher(opts),
		pages:     opts.Pages,
	}
}

func (s Service) Refresher() *Refresher {
	return s.refresher
}

// DocumentsRequest selects a window of a yearly source. Nil fields take
// their defaults.
type DocumentsRequest struct {
	Path      string
	StartYear *int
	EndYear   *int
	Query     string
	Skip      *int
	Top       *int
}

type BidsAndAwardsRequest struct {
	Category string
	Query    string
	Skip     *int
	Top      *int
}

type ListResponse struct {
	NumResults      int        `json:"num_results"`
	Skip            int        `json:"skip"`
	Top             int        `json:"top"`
	ReturnedResults int        `json:"returned_results"`
	LastUpdated     *string    `json:"last_updated"`
	Category        string     `json:"category,omitempty"`
	Results         []Document `json:"results"`
}

func intOr(value *int, fallback int) int {
	if value == nil {
		return fallback
	}
	return *value
}

func resolveWindow(skipArg, topArg *int) (skip, top int, err error) {
	skip = intOr(skipArg, 0)
	top = intOr(topArg, DefaultTop)
	if skip < 0 {
		return 0, 0, badRequest("skip must be greater than or equal to 0")
	}
	if top < 1 || top > MaxTop {
		return 0, 0, badRequest("top must be between 1 and %d", MaxTop)
	}
	return skip, top, nil
}

func (s Service) resolveYears(startArg, endArg *int) (start, end int, err error) {
	start = intOr(startArg, MinYear)
	end = intOr(endArg, s.refresher.Now().Year())
	if start < MinYear || start > MaxYear {
		return 0, 0, badRequest("start_year must be between %d and %d", MinYear, MaxYear)
	}
	if end < MinYear || end > MaxYear {
		return 0, 0, badRequest("end_year must be between %d and %d", MinYear, MaxYear)
	}
	if start > end {
		return 0, 0, badRequest("start_year cannot be greater than end_year")
	}
	return start, end, nil
}

type pageSnapshot struct {
	doc         *goquery.Document
	lastUpdated *string
}

// loadPage refreshes id if it is stale and parses its cached copy.
func (s Service) loadPage(ctx context.Context, id string) (*pageSnapshot, error) {
	_, err := s.refresher.RefreshIfStale(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "refresh failed", "source", id, "err", err)
		return nil, internal("Error refreshing data: %v", err)
	}

	contents, err := s.pages.Read(ctx, id)
	if errors.Is(err, ErrPageNotFound) {
		return nil, unavailable("Data for %s is not available yet", id)
	}
	if err != nil {
		return nil, internal("Error reading cached data: %v", err)
	}

	doc, err := parsePage(contents)
	if err != nil {
		return nil, internal("Error parsing data: %v", err)
	}

	var lastUpdated *string
	t, ok, err := s.refresher.LastRefreshed(ctx, id)
	if err != nil {
		return nil, internal("Error reading refresh time: %v", err)
	}
	if ok {
		formatted := formatTimestamp(t)
		lastUpdated = &formatted
	}
	return &pageSnapshot{doc: doc, lastUpdated: lastUpdated}, nil
}

// Documents lists the rows of a yearly source between two years.
func (s Service) Documents(ctx context.Context, req DocumentsRequest) (ListResponse, error) {
	ctx, span := tracer.Start(ctx, "Documents")
	defer span.End()
	span.SetAttributes(attribute.String("path", req.Path))

	res, err := s.documents(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrorDetail(err))
	}
	return res, err
}

func (s Service) documents(ctx context.Context, req DocumentsRequest) (ListResponse, error) {
	source, ok := LookupSource(req.Path)
	if !ok || source.Shape != ShapeYearly {
		return ListResponse{}, unknownValueError("path", req.Path, DocumentPaths())
	}
	start, end, err := s.resolveYears(req.StartYear, req.EndYear)
	if err != nil {
		return ListResponse{}, err
	}
	skip, top, err := resolveWindow(req.Skip, req.Top)
	if err != nil {
		return ListResponse{}, err
	}

	page, err := s.loadPage(ctx, source.ID)
	if err != nil {
		return ListResponse{}, err
	}
	records := ExtractYears(ctx, page.doc, start, end)
	return newListResponse(Query(records, req.Query, skip, top), page.lastUpdated, ""), nil
}

// BidsAndAwards lists the rows of one bids-and-awards category. Unknown
// categories are rejected before the source is refreshed.
func (s Service) BidsAndAwards(ctx context.Context, req BidsAndAwardsRequest) (ListResponse, error) {
	ctx, span := tracer.Start(ctx, "BidsAndAwards")
	defer span.End()
	span.SetAttributes(attribute.String("category", req.Category))

	res, err := s.bidsAndAwards(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrorDetail(err))
	}
	return res, err
}

func (s Service) bidsAndAwards(ctx context.Context, req BidsAndAwardsRequest) (ListResponse, error) {
	category, ok := LookupCategory(req.Category)
	if !ok {
		return ListResponse{}, unknownValueError("category", req.Category, CategoryIDs())
	}
	skip, top, err := resolveWindow(req.Skip, req.Top)
	if err != nil {
		return ListResponse{}, err
	}

	page, err := s.loadPage(ctx, SourceBidsAndAwards)
	if err != nil {
		return ListResponse{}, err
	}
	records, found := ExtractCategory(ctx, page.doc, category)
	if !found {
		return ListResponse{}, notFound("Category %q not found in the cached page", category.Title)
	}
	return newListResponse(Query(records, req.Query, skip, top), page.lastUpdated, category.ID), nil
}

func newListResponse(page Page, lastUpdated *string, category string) ListResponse {
	return ListResponse{
		NumResults:      page.Total,
		Skip:            page.Skip,
		Top:             page.Top,
		ReturnedResults: page.Returned(),
		LastUpdated:     lastUpdated,
		Category:        category,
		Results:         page.Results,
	}
}

type Endpoints struct {
	Documents     string `json:"documents"`
	BidsAndAwards string `json:"bids_and_awards"`
}

type InfoResponse struct {
	Name            string    `json:"name"`
	Version         string    `json:"version"`
	Description     string    `json:"description"`
	Endpoints       Endpoints `json:"endpoints"`
	ValidPaths      []string  `json:"valid_paths"`
	ValidCategories []string  `json:"valid_categories"`
}

func (s Service) Info() InfoResponse {
	return InfoResponse{
		Name:        apiName,
		Version:     apiVersion,
		Description: apiDescription,
		Endpoints: Endpoints{
			Documents: fmt.Sprintf(
				"/{path}?start_year=%d&end_year=%d&query=&skip=0&top=%d",
				MinYear, s.refresher.Now().Year(), DefaultTop,
			),
			BidsAndAwards: fmt.Sprintf("/bids-and-awards/{category}?query=&skip=0&top=%d", DefaultTop),
		},
		ValidPaths:      DocumentPaths(),
		ValidCategories: CategoryIDs(),
	}
}

// SourceStatus describes the cache state of one source.
type SourceStatus struct {
	ID            string
	URL           string
	LastRefreshed *time.Time
	Age           time.Duration
	Stale         bool
	Cached        bool
}

func (s Service) Status(ctx context.Context) ([]SourceStatus, error) {
	times, err := s.refresher.times.Load(ctx)
	if err != nil {
		return nil, err
	}
	now := s.refresher.Now()

	out := make([]SourceStatus, 0, len(Sources))
	for _, source := range Sources {
		link, err := s.refresher.URL(source.ID)
		if err != nil {
			return nil, err
		}
		cached, err := s.pages.Exists(ctx, source.ID)
		if err != nil {
			return nil, fmt.Errorf("check page %s: %w", source.ID, err)
		}
		status := SourceStatus{
			ID:     source.ID,
			URL:    link,
			Cached: cached,
			Stale:  true,
		}
		if t, ok := times[source.ID]; ok {
			local := t.In(timezone.Location)
			status.LastRefreshed = &local
			status.Age = now.Sub(t)
			status.Stale = status.Age >= s.refresher.MaxAge()
		}
		out = append(out, status)
	}
	return out, nil
}
