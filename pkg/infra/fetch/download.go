package fetch

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// download writes the source at rawURL to dest through dest+".part". With resume set, an existing
// partial file is continued when the source supports ranges.
func (c *Client) download(ctx context.Context, rawURL, dest, checksum string, resume bool) (int64, error) {
	part := dest + ".part"

	var offset int64
	if resume {
		if info, err := os.Stat(part); err == nil {
			offset = info.Size()
		}
	} else if err := os.Remove(part); err != nil && !os.IsNotExist(err) {
		return 0, goerr.Wrap(err, "failed to remove partial download", goerr.V("path", part))
	}

	body, resumed, err := c.open(ctx, rawURL, offset)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if resumed {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	fd, err := os.OpenFile(part, flags, 0o644)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to open partial download", goerr.V("path", part))
	}

	n, err := io.Copy(fd, body)
	if err != nil {
		_ = fd.Close()
		return 0, goerr.Wrap(err, "failed to write download", goerr.V("url", rawURL), goerr.V("path", part))
	}
	if err := fd.Close(); err != nil {
		return 0, goerr.Wrap(err, "failed to close download", goerr.V("path", part))
	}

	if checksum != "" {
		if err := verifyMD5(part, checksum); err != nil {
			_ = os.Remove(part)
			return 0, err
		}
	}

	if err := os.Rename(part, dest); err != nil {
		return 0, goerr.Wrap(err, "failed to move download into place", goerr.V("path", dest))
	}
	return n, nil
}

// open returns a reader positioned at offset and whether the reader actually starts there.
func (c *Client) open(ctx context.Context, rawURL string, offset int64) (io.ReadCloser, bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, false, goerr.Wrap(err, "invalid source URL", goerr.V("url", rawURL))
	}

	switch u.Scheme {
	case "http", "https":
		return c.openHTTP(ctx, rawURL, offset)

	case "gs":
		if c.cfg.storage == nil {
			return nil, false, goerr.New("gs:// source requires object storage", goerr.V("url", rawURL))
		}
		rc, err := c.cfg.storage.Open(ctx, u.Host, strings.TrimPrefix(u.Path, "/"), offset)
		if err != nil {
			return nil, false, goerr.Wrap(err, "failed to open object", goerr.V("url", rawURL))
		}
		return rc, offset > 0, nil

	case "file":
		fd, err := os.Open(u.Path)
		if err != nil {
			return nil, false, goerr.Wrap(err, "failed to open local source", goerr.V("url", rawURL))
		}
		if offset > 0 {
			if _, err := fd.Seek(offset, io.SeekStart); err != nil {
				_ = fd.Close()
				return nil, false, goerr.Wrap(err, "failed to seek local source", goerr.V("url", rawURL))
			}
		}
		return fd, offset > 0, nil
	}

	return nil, false, goerr.New("unsupported source scheme", goerr.V("url", rawURL), goerr.V("scheme", u.Scheme))
}

func (c *Client) openHTTP(ctx context.Context, rawURL string, offset int64) (io.ReadCloser, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to create download request", goerr.V("url", rawURL))
	}
	if offset > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", offset))
	}
	if c.cfg.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.authToken)
	}

	resp, err := c.cfg.httpClient.Do(req)
	if err != nil {
		return nil, false, goerr.Wrap(err, "failed to download", goerr.V("url", rawURL))
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, false, nil
	case http.StatusPartialContent:
		return resp.Body, true, nil
	case http.StatusRequestedRangeNotSatisfiable:
		// partial file is stale or already complete; start over
		_ = resp.Body.Close()
		if offset > 0 {
			return c.openHTTP(ctx, rawURL, 0)
		}
	}

	_ = resp.Body.Close()
	return nil, false, goerr.New("unexpected status code",
		goerr.V("url", rawURL),
		goerr.V("status", resp.StatusCode),
	)
}

// verifyMD5 computes the md5 of path and compares it to expected.
func verifyMD5(path, expected string) error {
	fd, err := os.Open(path)
	if err != nil {
		return goerr.Wrap(err, "failed to open file for checksum", goerr.V("path", path))
	}
	defer fd.Close()

	h := md5.New()
	if _, err := io.Copy(h, fd); err != nil {
		return goerr.Wrap(err, "failed to hash file", goerr.V("path", path))
	}
	actual := hex.EncodeToString(h.Sum(nil))
	if !strings.EqualFold(actual, expected) {
		return goerr.New("checksum mismatch",
			goerr.V("path", path),
			goerr.V("expected", expected),
			goerr.V("actual", actual),
		)
	}
	return nil
}

// archiveName derives a file name for a downloaded archive from its URL.
func archiveName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "download"
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" || name == "" {
		return "download"
	}
	return name
}
