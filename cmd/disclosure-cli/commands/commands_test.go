package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

const upstreamPage = `<html><body>
<div class="card-header"><h2>2024</h2></div>
<div class="card-body"><table>
	<tr><td><a href="/files/eo-7.pdf" data-uuid="u7">Executive Order No. 7</a></td><td>12</td></tr>
</table></div>
</body></html>`

func writeConfig(t *testing.T, upstream string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	contents := fmt.Sprintf(`{
	// pointed at a local upstream
	"disclosure": {
		"storage": {
			"pages_dir": %q,
			"timestamps_file": %q,
		},
		"urls": {
			"executive-orders": %q,
		},
	},
}`, filepath.Join(dir, "htmls"), filepath.Join(dir, "last_updated.txt"), upstream)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRefreshStatusQuery(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, upstreamPage)
	}))
	defer server.Close()

	config := writeConfig(t, server.URL+"/eo")

	out, err := run(t, "--config", config, "refresh", "executive-orders")
	require.NoError(t, err)
	require.Contains(t, out, "executive-orders: refreshed")
	require.EqualValues(t, 1, hits.Load())

	out, err = run(t, "--config", config, "refresh", "executive-orders")
	require.NoError(t, err)
	require.Contains(t, out, "executive-orders: still fresh")
	require.EqualValues(t, 1, hits.Load())

	out, err = run(t, "--config", config, "status")
	require.NoError(t, err)
	require.Contains(t, out, "executive-orders")
	require.Contains(t, out, "never")

	out, err = run(t, "--config", config, "query", "executive-orders", "--start-year", "2024", "--end-year", "2024")
	require.NoError(t, err)
	require.Contains(t, out, "Executive Order No. 7")
	require.Contains(t, out, "/files/eo-7.pdf")
	require.EqualValues(t, 1, hits.Load())
}

func TestRefreshUnknownSource(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "config.json5"), "refresh", "minutes")
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown source")
}
