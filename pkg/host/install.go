package host

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adi-family/pluginhost/pkg/hosterr"
	"github.com/adi-family/pluginhost/pkg/pluginlog"
	"github.com/adi-family/pluginhost/pkg/regclient"
	"github.com/adi-family/pluginhost/pkg/statestore"
)

func pluginAuditEntry(op, pluginID, result, detail string) pluginlog.AuditEntry {
	return pluginlog.AuditEntry{Timestamp: time.Now(), Op: op, Plugin: pluginID, Result: result, Detail: detail}
}

// InstallPackage resolves id@version against the configured registry
// client, downloads it, verifies its checksum, and extracts it into the
// plugins directory. Progress is tracked in the status store so concurrent
// callers can poll InstallStatus; a failure at any step leaves the package
// in the Failed state. Files already written by an extraction that fails
// part-way are not removed.
func (h *PluginHost) InstallPackage(ctx context.Context, id, version string) error {
	if h.regClient == nil {
		return hosterr.New(hosterr.ErrInternal, "host.install_package", nil).
			WithPlugin(id).
			WithAdvice("no registry client configured")
	}

	_ = h.store.PutStatus(id, statestore.Status{State: "installing", Progress: 0})

	info, err := h.regClient.GetPackageVersion(ctx, id, version)
	if err != nil {
		return h.failInstall(id, hosterr.Wrap(err, hosterr.ErrPackageNotFound, "host.install_package").WithPlugin(id))
	}

	data, err := h.regClient.DownloadPackage(ctx, info)
	if err != nil {
		return h.failInstall(id, hosterr.Wrap(err, hosterr.ErrPackageNotFound, "host.install_package").WithPlugin(id))
	}
	_ = h.store.PutStatus(id, statestore.Status{State: "installing", Progress: 50, Version: info.Version})

	if err := h.verifyDownload(id, info, data); err != nil {
		return h.failInstall(id, err)
	}

	destDir := filepath.Join(h.cfg.PluginsDir, id)
	if err := extractTarGz(data, destDir); err != nil {
		return h.failInstall(id, hosterr.Wrap(err, hosterr.ErrInternal, "host.install_package").WithPlugin(id))
	}

	if err := h.ScanInstalled(); err != nil {
		return h.failInstall(id, err)
	}

	_ = h.store.PutStatus(id, statestore.Status{State: "installed", Version: info.Version})
	h.log.Audit(pluginAuditEntry("install", id, "success", ""))
	return nil
}

// verifyDownload enforces the checksum the registry advertised, if any.
// PackageInfo carries a checksum but no detached signature, so no signature
// is checked here: when the host requires signatures, every download fails
// verification with ErrSignatureInvalid rather than being silently accepted.
// The configured trusted keys are not consulted.
func (h *PluginHost) verifyDownload(id string, info regclient.PackageInfo, data []byte) error {
	if info.SHA256 != "" {
		if err := h.verifier.VerifyChecksum(data, info.SHA256); err != nil {
			return hosterr.Wrap(err, hosterr.ErrChecksumMismatch, "host.install_package").WithPlugin(id)
		}
	}
	if h.cfg.RequireSignatures {
		return hosterr.New(hosterr.ErrSignatureInvalid, "host.install_package", nil).
			WithPlugin(id).
			WithAdvice("signatures are required but the registry client does not provide a detached signature")
	}
	return nil
}

func (h *PluginHost) failInstall(id string, cause error) error {
	_ = h.store.PutStatus(id, statestore.Status{State: "failed", Error: cause.Error()})
	h.log.Audit(pluginAuditEntry("install", id, "failure", cause.Error()))
	return cause
}

// UninstallPackage disables every plugin the package provides (ignoring
// individual disable errors, per the teardown-is-best-effort contract),
// removes the package's directory tree, and drops its inventory and status
// entries.
func (h *PluginHost) UninstallPackage(id string) error {
	pkg, ok := h.inventory.Packages[id]
	if !ok {
		return hosterr.New(hosterr.ErrPackageNotFound, "host.uninstall_package", nil).WithPlugin(id)
	}

	for _, pluginID := range pkg.PluginIDs {
		h.DisableWithDependents(pluginID)
	}

	if err := os.RemoveAll(pkg.Path); err != nil {
		return hosterr.Wrap(err, hosterr.ErrInternal, "host.uninstall_package").WithPlugin(id)
	}

	delete(h.inventory.Packages, id)
	for _, pluginID := range pkg.PluginIDs {
		delete(h.inventory.Plugins, pluginID)
	}
	_ = h.store.DeleteStatus(id)
	h.log.Audit(pluginAuditEntry("uninstall", id, "success", ""))
	return nil
}

// extractTarGz extracts a gzip-compressed tarball into destDir, creating
// parent directories as needed. Entries that would escape destDir are
// rejected.
func extractTarGz(data []byte, destDir string) error {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar entry: %w", err)
		}

		cleanDest := filepath.Clean(destDir)
		target := filepath.Join(cleanDest, hdr.Name)
		if target != cleanDest && !strings.HasPrefix(target, cleanDest+string(os.PathSeparator)) {
			return fmt.Errorf("tar entry %q escapes destination directory", hdr.Name)
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o750); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o750); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return err
			}
			f.Close()
		}
	}
}
