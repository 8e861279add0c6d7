package regclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetPackageVersionAndDownload(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		switch r.URL.Path {
		case "/packages/acme.hello/1.0.0":
			_ = json.NewEncoder(w).Encode(PackageInfo{
				ID: "acme.hello", Version: "1.0.0", SHA256: "abc",
				Download: r.Host + "/dl",
			})
		case "/dl":
			_, _ = w.Write([]byte("package-bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	info, err := c.GetPackageVersion(context.Background(), "acme.hello", "1.0.0")
	require.NoError(t, err)
	require.Equal(t, "/packages/acme.hello/1.0.0", gotPath)
	require.Equal(t, "acme.hello", info.ID)

	info.Download = srv.URL + "/dl"
	data, err := c.DownloadPackage(context.Background(), info)
	require.NoError(t, err)
	require.Equal(t, "package-bytes", string(data))
}

func TestGetPackageVersionNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.GetPackageVersion(context.Background(), "missing", "1.0.0")
	require.Error(t, err)
}

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "hello", r.URL.Query().Get("q"))
		_ = json.NewEncoder(w).Encode([]PackageInfo{{ID: "acme.hello"}})
	}))
	defer srv.Close()

	c := New(srv.URL)
	results, err := c.Search(context.Background(), "hello")
	require.NoError(t, err)
	require.Len(t, results, 1)
}
