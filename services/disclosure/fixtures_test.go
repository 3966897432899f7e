package disclosure

import (
	"context"
	"fmt"
	"fulldisclosure-backend/lib/timezone"
	"sync"
	"testing"
	"time"
)

const executiveOrdersPage = `<!DOCTYPE html>
<html><body><div class="container">
<div class="card">
	<div class="card-header"><h2>Executive Orders 2025</h2></div>
	<div class="card-body"><table>
		<tr><th>Title</th><th>Views</th></tr>
		<tr><td><a href="/files/eo-2025-01.pdf" data-uuid="c1">Executive Order No. 1 s. 2025</a></td></tr>
	</table></div>
</div>
<div class="card">
	<div class="card-header"><h2>Executive Orders 2024</h2></div>
	<div class="card-body"><table>
		<tr><td><a href="/files/eo-2024-07.pdf" data-uuid="b7">
			Executive Order   No. 7 s. 2024
		</a></td><td>  152 </td></tr>
		<tr><td>Pending upload</td></tr>
		<tr><td><a href="/files/eo-2024-08.pdf">Executive Order No. 8 s. 2024</a></td></tr>
	</table></div>
</div>
</div></body></html>`

const bidsAndAwardsPage = `<!DOCTYPE html>
<html><body><div class="row">
<div class="col-md-12 text-center"><h1>Invitation to Bid</h1></div>
<div class="col-md-12"><table>
	<tr><td><a href="/bids/itb-1.pdf" data-uuid="i1">ITB-2025-001 Road Repair</a></td><td>10</td></tr>
	<tr><td>No document yet</td></tr>
	<tr><td><a href="/bids/itb-2.pdf" data-uuid="i2">ITB-2025-002 Drainage</a></td><td>3</td></tr>
</table></div>
<div class="col-md-12 text-center"><h1>Other Notices</h1></div>
<div class="col-md-12"><ul>
	<li><a href="/bids/notice-1.pdf">Notice of Postponement</a></li>
	<li><a href="/bids/notice-2.pdf">  </a></li>
</ul></div>
<div class="col-md-12 text-center"><h1>Bid Bulletin</h1></div>
<div class="col-md-12"><table></table></div>
</div></body></html>`

var testNow = time.Date(2025, time.June, 15, 10, 0, 0, 0, timezone.Location)

func ptr[T any](v T) *T {
	return &v
}

type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	err   error
	calls []string
}

func newFakeFetcher() *fakeFetcher {
	pages := map[string]string{}
	for _, s := range Sources {
		switch s.ID {
		case "executive-orders":
			pages[s.URL] = executiveOrdersPage
		case SourceBidsAndAwards:
			pages[s.URL] = bidsAndAwardsPage
		default:
			pages[s.URL] = "<html><body></body></html>"
		}
	}
	return &fakeFetcher{pages: pages}
}

func (f *fakeFetcher) Fetch(ctx context.Context, link string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, link)
	if f.err != nil {
		return nil, f.err
	}
	body, ok := f.pages[link]
	if !ok {
		return nil, fmt.Errorf("no page for %s", link)
	}
	return []byte(body), nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type testEnv struct {
	service Service
	pages   *MemoryPageStore
	times   *MemoryTimestampStore
	fetcher *fakeFetcher
}

func newTestEnv(t testing.TB) testEnv {
	t.Helper()
	env := testEnv{
		pages:   NewMemoryPageStore(),
		times:   NewMemoryTimestampStore(),
		fetcher: newFakeFetcher(),
	}
	env.service = NewService(ServiceOptions{
		Pages:   env.pages,
		Times:   env.times,
		Fetcher: env.fetcher,
		Clock:   timezone.FixedClock{Time: testNow},
	})
	return env
}
