package disclosure

import (
	"context"
	"fmt"
	"fulldisclosure-backend/lib/restyutil"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

// Fetcher performs a single GET for link and returns the full body.
type Fetcher interface {
	Fetch(ctx context.Context, link string) ([]byte, error)
}

type FetcherOptions struct {
	// Timeout defaults to 30 seconds.
	Timeout   time.Duration
	UserAgent string
	// CloudflareBypass wraps the transport with a browser-like TLS fingerprint.
	CloudflareBypass bool
	// Output receives request dumps while debug logging is on, may be nil.
	Output restyutil.InstrumentOutput
}

type HttpFetcher struct {
	http *resty.Client
}

func NewHttpFetcher(opts FetcherOptions) HttpFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = time.Second * 30
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	client := resty.New()
	if opts.CloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}
	client.SetHeader("user-agent", opts.UserAgent)
	client.SetTimeout(opts.Timeout)

	restyutil.InstrumentClient(client, otel.Tracer("services/disclosure/http"), opts.Output)

	return HttpFetcher{http: client}
}

// Fetch does not retry, a non-2xx response is returned as an error.
func (f HttpFetcher) Fetch(ctx context.Context, link string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "fetch")
	defer span.End()
	span.SetAttributes(attribute.String("url", link))

	res, err := f.http.R().
		SetContext(ctx).
		Get(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, fmt.Errorf("fetch %s: %w", link, err)
	}
	if res.IsError() {
		span.SetStatus(codes.Error, "upstream error status")
		return nil, fmt.Errorf("fetch %s: upstream responded with %s", link, res.Status())
	}
	return res.Body(), nil
}
