// Package regclient provides the registry-client collaborator install uses
// to resolve a package version and fetch its bytes. The wire protocol for a
// real package registry (tarball layout, search index ranking) is out of
// scope for the core; this package only proves the Client interface
// is wireable end to end with a plain JSON package-info fetch plus a raw
// body download.
package regclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// PackageInfo is the minimal metadata the registry reports about a package
// version.
type PackageInfo struct {
	ID       string `json:"id"`
	Version  string `json:"version"`
	SHA256   string `json:"sha256"`
	Download string `json:"download_url"`
}

// Client is the registry-client collaborator the host orchestrator depends
// on for install_package and search.
type Client interface {
	GetPackageVersion(ctx context.Context, id, version string) (PackageInfo, error)
	DownloadPackage(ctx context.Context, info PackageInfo) ([]byte, error)
	Search(ctx context.Context, query string) ([]PackageInfo, error)
}

// HTTPClient is the default Client: a plain net/http-backed implementation
// against a registry base URL.
type HTTPClient struct {
	BaseURL string
	HTTP    *http.Client
}

// New constructs an HTTPClient against baseURL, defaulting to
// http.DefaultClient.
func New(baseURL string) *HTTPClient {
	return &HTTPClient{BaseURL: baseURL, HTTP: http.DefaultClient}
}

// GetPackageVersion fetches "<base>/packages/<id>/<version>" and decodes a
// PackageInfo from the JSON body. version may be "latest".
func (c *HTTPClient) GetPackageVersion(ctx context.Context, id, version string) (PackageInfo, error) {
	endpoint := fmt.Sprintf("%s/packages/%s/%s", c.BaseURL, url.PathEscape(id), url.PathEscape(version))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return PackageInfo{}, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return PackageInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PackageInfo{}, fmt.Errorf("registry returned status %d for %s@%s", resp.StatusCode, id, version)
	}

	var info PackageInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return PackageInfo{}, fmt.Errorf("decode package info: %w", err)
	}
	return info, nil
}

// DownloadPackage fetches the raw package bytes named by info.Download.
func (c *HTTPClient) DownloadPackage(ctx context.Context, info PackageInfo) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, info.Download, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download returned status %d for %s", resp.StatusCode, info.Download)
	}
	return io.ReadAll(resp.Body)
}

// Search queries "<base>/search?q=<query>" and decodes a list of PackageInfo.
func (c *HTTPClient) Search(ctx context.Context, query string) ([]PackageInfo, error) {
	endpoint := fmt.Sprintf("%s/search?q=%s", c.BaseURL, url.QueryEscape(query))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned status %d for search %q", resp.StatusCode, query)
	}

	var results []PackageInfo
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decode search results: %w", err)
	}
	return results, nil
}
