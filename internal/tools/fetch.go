package tools

import (
	"archive/tar"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

// Fetcher downloads a remote archive into memory.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches archives over HTTP(S).
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

// NewHTTPFetcher returns a fetcher with a generous download timeout.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client:    &http.Client{Timeout: 10 * time.Minute},
		UserAgent: "workshop-upload/1.0",
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, downloadURL string) ([]byte, error) {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", downloadURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download %s: unexpected status %s", downloadURL, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", downloadURL, err)
	}
	return data, nil
}

var _ Fetcher = (*HTTPFetcher)(nil)

type archiveFormat string

const (
	archiveFormatZip   archiveFormat = "zip"
	archiveFormatTarGz archiveFormat = "tar.gz"
)

func detectFormat(data []byte) (archiveFormat, error) {
	switch {
	case bytes.HasPrefix(data, []byte("PK\x03\x04")), bytes.HasPrefix(data, []byte("PK\x05\x06")):
		return archiveFormatZip, nil
	case len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b:
		return archiveFormatTarGz, nil
	default:
		return "", errors.New("unrecognised archive format")
	}
}

// Extract unpacks a zip or tar.gz archive into dest and returns the extracted
// entries in archive order.
func Extract(data []byte, dest string) ([]Entry, error) {
	format, err := detectFormat(data)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return nil, fmt.Errorf("prepare extract dir: %w", err)
	}

	switch format {
	case archiveFormatZip:
		return extractZip(data, dest)
	default:
		return extractTarGz(data, dest)
	}
}

// entryTarget cleans an archive member name and rejects names that would land
// outside dest.
func entryTarget(dest, name string) (string, string, error) {
	rel := strings.TrimPrefix(path.Clean("/"+strings.ReplaceAll(name, `\`, "/")), "/")
	if rel == "" {
		return "", "", nil
	}
	target := filepath.Join(dest, filepath.FromSlash(rel))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", "", fmt.Errorf("archive entry %q escapes destination", name)
	}
	return rel, target, nil
}

func extractZip(data []byte, dest string) ([]Entry, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	var entries []Entry
	for _, file := range reader.File {
		rel, target, err := entryTarget(dest, file.Name)
		if err != nil {
			return nil, err
		}
		if rel == "" {
			continue
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, fmt.Errorf("create dir %s: %w", target, err)
			}
			entries = append(entries, Entry{Path: rel, Kind: KindDir})
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open zip entry %s: %w", file.Name, err)
		}
		err = writeFile(target, rc, file.Mode())
		rc.Close()
		if err != nil {
			return nil, err
		}
		entries = append(entries, Entry{Path: rel, Kind: KindFile})
	}
	return entries, nil
}

func extractTarGz(data []byte, dest string) ([]Entry, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("gzip reader: %w", err)
	}
	defer gz.Close()

	var entries []Entry
	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read tar header: %w", err)
		}
		rel, target, err := entryTarget(dest, header.Name)
		if err != nil {
			return nil, err
		}
		if rel == "" {
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, fmt.Errorf("create dir %s: %w", target, err)
			}
			entries = append(entries, Entry{Path: rel, Kind: KindDir})
		case tar.TypeReg:
			if err := writeFile(target, tr, os.FileMode(header.Mode)); err != nil {
				return nil, err
			}
			entries = append(entries, Entry{Path: rel, Kind: KindFile})
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return nil, fmt.Errorf("prepare link %s: %w", target, err)
			}
			_ = os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return nil, fmt.Errorf("create link %s: %w", target, err)
			}
			entries = append(entries, Entry{Path: rel, Kind: KindSymlink})
		default:
			// Ignore other entry types.
		}
	}
	return entries, nil
}

func writeFile(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("prepare file %s: %w", target, err)
	}
	if mode.Perm() == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close file %s: %w", target, err)
	}
	return nil
}
