package disclosure

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type errorBody struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("content-type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Warn("failed to write response", "err", err)
	}
}

func writeError(r *http.Request, w http.ResponseWriter, err error) {
	status := HttpStatus(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "status", status, "err", err)
	} else {
		slog.DebugContext(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	writeJSON(w, status, errorBody{Detail: ErrorDetail(err)})
}

// optionalInt parses the query parameter name, it is nil when the parameter
// is absent.
func optionalInt(r *http.Request, name string) (*int, error) {
	values := r.URL.Query()
	if !values.Has(name) {
		return nil, nil
	}
	n, err := strconv.Atoi(values.Get(name))
	if err != nil {
		return nil, badRequest("%s must be an integer", name)
	}
	return &n, nil
}

type windowParams struct {
	query string
	skip  *int
	top   *int
}

func parseWindowParams(r *http.Request) (windowParams, error) {
	skip, err := optionalInt(r, "skip")
	if err != nil {
		return windowParams{}, err
	}
	top, err := optionalInt(r, "top")
	if err != nil {
		return windowParams{}, err
	}
	return windowParams{
		query: r.URL.Query().Get("query"),
		skip:  skip,
		top:   top,
	}, nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps a handler in a span and counts its responses by route and status.
func instrument(route string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), fmt.Sprintf("GET %s", route))
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
		requestCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("route", route),
			attribute.Int("status", rec.status),
		))
	}
}

// Handler serves the JSON API:
//
//	GET /                            api metadata
//	GET /{path}                      yearly sources
//	GET /bids-and-awards/{category}  bids and awards categories
func (s Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", instrument("/", s.handleInfo))
	mux.HandleFunc("GET /bids-and-awards/{category}", instrument("/bids-and-awards/{category}", s.handleBidsAndAwards))
	mux.HandleFunc("GET /{path}", instrument("/{path}", s.handleDocuments))
	return mux
}

func (s Service) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Info())
}

func (s Service) handleDocuments(w http.ResponseWriter, r *http.Request) {
	startYear, err := optionalInt(r, "start_year")
	if err != nil {
		writeError(r, w, err)
		return
	}
	endYear, err := optionalInt(r, "end_year")
	if err != nil {
		writeError(r, w, err)
		return
	}
	window, err := parseWindowParams(r)
	if err != nil {
		writeError(r, w, err)
		return
	}

	res, err := s.Documents(r.Context(), DocumentsRequest{
		Path:      r.PathValue("path"),
		StartYear: startYear,
		EndYear:   endYear,
		Query:     window.query,
		Skip:      window.skip,
		Top:       window.top,
	})
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s Service) handleBidsAndAwards(w http.ResponseWriter, r *http.Request) {
	window, err := parseWindowParams(r)
	if err != nil {
		writeError(r, w, err)
		return
	}

	res, err := s.BidsAndAwards(r.Context(), BidsAndAwardsRequest{
		Category: r.PathValue("category"),
		Query:    window.query,
		Skip:     window.skip,
		Top:      window.top,
	})
	if err != nil {
		writeError(r, w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
