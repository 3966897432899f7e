package disclosure

import (
	"context"
	configlibsql "fulldisclosure-backend/lib/configutil/libsql"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	require.Equal(t, DriverFilesystem, config.Storage.Driver)
	require.Equal(t, 1440, config.Refresh.MaxAgeMinutes)
	require.Equal(t, 30, config.Fetch.TimeoutSeconds)
}

func TestOpenFilesystem(t *testing.T) {
	dir := t.TempDir()
	config := DefaultConfig()
	config.Storage.PagesDir = filepath.Join(dir, "htmls")
	config.Storage.TimestampsFile = filepath.Join(dir, "last_updated.txt")
	config.Refresh.MaxAgeMinutes = 90
	config.URLs = map[string]string{"resolutions": "http://mirror.local/resolutions"}

	service, closer, err := Open(context.Background(), config, nil)
	require.NoError(t, err)
	defer closer()

	require.IsType(t, FilesystemPageStore{}, service.pages)
	require.Equal(t, 90*60, int(service.Refresher().MaxAge().Seconds()))

	link, err := service.Refresher().URL("resolutions")
	require.NoError(t, err)
	require.Equal(t, "http://mirror.local/resolutions", link)
}

func TestOpenSQL(t *testing.T) {
	config := DefaultConfig()
	config.Storage.Driver = DriverSQL
	config.Storage.Database = configlibsql.Struct{File: ":memory:"}

	service, closer, err := Open(context.Background(), config, nil)
	require.NoError(t, err)
	defer closer()

	require.IsType(t, SQLStore{}, service.pages)
	statuses, err := service.Status(context.Background())
	require.NoError(t, err)
	require.Len(t, statuses, len(Sources))
}

func TestOpenRejectsBadConfig(t *testing.T) {
	config := DefaultConfig()
	config.Storage.Driver = "mongo"
	_, _, err := Open(context.Background(), config, nil)
	require.Error(t, err)

	config = DefaultConfig()
	config.URLs = map[string]string{"minutes": "http://mirror.local"}
	_, _, err = Open(context.Background(), config, nil)
	require.ErrorIs(t, err, ErrUnknownSource)
}

func TestOpenDefaultsOutsideWorkspace(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	service, closer, err := Open(context.Background(), DefaultConfig(), nil)
	require.NoError(t, err)
	defer closer()

	require.Equal(t, NewFilesystemPageStore(filepath.Join("state", "htmls")), service.pages)
}
