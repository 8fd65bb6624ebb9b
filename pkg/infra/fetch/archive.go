package fetch

import (
	"archive/tar"
	"archive/zip"
	"bufio"
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/m-mizutani/goerr/v2"
)

var (
	zipMagic  = []byte("PK\x03\x04")
	gzipMagic = []byte{0x1f, 0x8b}
)

// Extract unpacks a zip, tar, tar.gz or single-file gzip archive into destDir and returns the
// number of regular files written. The format is detected from the content.
func Extract(archive, destDir string) (int, error) {
	fd, err := os.Open(archive)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to open archive", goerr.V("archive", archive))
	}
	defer fd.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return 0, goerr.Wrap(err, "failed to create extraction directory", goerr.V("dir", destDir))
	}

	br := bufio.NewReaderSize(fd, 1024)
	head, _ := br.Peek(4)

	switch {
	case bytes.HasPrefix(head, zipMagic):
		info, err := fd.Stat()
		if err != nil {
			return 0, goerr.Wrap(err, "failed to stat archive", goerr.V("archive", archive))
		}
		return extractZip(fd, info.Size(), destDir)

	case bytes.HasPrefix(head, gzipMagic):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return 0, goerr.Wrap(err, "failed to open gzip stream", goerr.V("archive", archive))
		}
		defer zr.Close()

		inner := bufio.NewReaderSize(zr, 1024)
		if isTar(inner) {
			return extractTar(inner, destDir)
		}
		name := strings.TrimSuffix(filepath.Base(archive), ".gz")
		return 1, writeFile(filepath.Join(destDir, name), inner, 0o644)

	case isTar(br):
		return extractTar(br, destDir)
	}

	return 0, goerr.New("unsupported archive format", goerr.V("archive", archive))
}

func isTar(br *bufio.Reader) bool {
	block, err := br.Peek(512)
	if err != nil && len(block) < 262 {
		return false
	}
	return bytes.HasPrefix(block[257:], []byte("ustar"))
}

func extractZip(r io.ReaderAt, size int64, destDir string) (int, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to create zip reader")
	}

	count := 0
	for _, file := range zr.File {
		destPath, err := safeJoin(destDir, file.Name)
		if err != nil {
			return 0, err
		}

		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				return 0, goerr.Wrap(err, "failed to create directory", goerr.V("dir", destPath))
			}
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return 0, goerr.Wrap(err, "failed to open file in zip", goerr.V("file", file.Name))
		}
		err = writeFile(destPath, rc, file.Mode().Perm()|0o600)
		_ = rc.Close()
		if err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

func extractTar(r io.Reader, destDir string) (int, error) {
	tr := tar.NewReader(r)

	count := 0
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, goerr.Wrap(err, "failed to read tar entry")
		}

		destPath, err := safeJoin(destDir, hdr.Name)
		if err != nil {
			return 0, err
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(destPath, 0o755); err != nil {
				return 0, goerr.Wrap(err, "failed to create directory", goerr.V("dir", destPath))
			}
		case tar.TypeReg:
			if err := writeFile(destPath, tr, fs.FileMode(hdr.Mode).Perm()|0o600); err != nil {
				return 0, err
			}
			count++
		}
	}
	return count, nil
}

// safeJoin prevents archive entries from escaping destDir.
func safeJoin(destDir, name string) (string, error) {
	destPath := filepath.Join(destDir, name)
	if destPath != filepath.Clean(destDir) &&
		!strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return "", goerr.New("invalid file path detected", goerr.V("file", name), goerr.V("dest", destPath))
	}
	return destPath, nil
}

func writeFile(path string, r io.Reader, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create parent directories", goerr.V("dir", filepath.Dir(path)))
	}

	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return goerr.Wrap(err, "failed to create destination file", goerr.V("path", path))
	}
	if _, err := io.Copy(fd, r); err != nil {
		_ = fd.Close()
		return goerr.Wrap(err, "failed to copy file content", goerr.V("path", path))
	}
	if err := fd.Close(); err != nil {
		return goerr.Wrap(err, "failed to close destination file", goerr.V("path", path))
	}
	return nil
}

// mergeTree moves every file under src into the same relative location under dst, replacing
// existing files.
func mergeTree(src, dst string) error {
	return filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return goerr.Wrap(err, "failed to resolve relative path", goerr.V("path", p))
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return goerr.Wrap(err, "failed to create directory", goerr.V("dir", target))
			}
			return nil
		}
		if err := os.Rename(p, target); err != nil {
			return goerr.Wrap(err, "failed to move extracted file", goerr.V("from", p), goerr.V("to", target))
		}
		return nil
	})
}
