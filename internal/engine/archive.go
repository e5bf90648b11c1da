package engine

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// validateArchive walks every member of the gzip tar stream and rejects the
// whole archive if any path is absolute or contains a parent-directory
// segment. It runs to completion before any extraction side effect occurs.
func validateArchive(payload []byte) error {
	gz, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchive, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrArchive, err)
		}
		if err := checkMemberPath(hdr.Name); err != nil {
			return err
		}
		if hdr.Linkname != "" {
			if err := checkMemberPath(hdr.Linkname); err != nil {
				return err
			}
		}
	}
}

func checkMemberPath(name string) error {
	if name == "" {
		return nil
	}
	if strings.HasPrefix(name, "/") || filepath.IsAbs(name) {
		return fmt.Errorf("%w: absolute member path %q", ErrSecurity, name)
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return fmt.Errorf("%w: traversal in member path %q", ErrSecurity, name)
		}
	}
	return nil
}

// extractArchive unpacks the already-validated payload into scratch and
// returns the path of the pack's top-level directory inside scratch. An
// archive yielding no directory is an error; flat-at-root packs are not a
// supported shape.
func extractArchive(payload []byte, scratch string) (string, error) {
	gz, err := gzip.NewReader(bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrArchive, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrArchive, err)
		}

		target := filepath.Join(scratch, filepath.FromSlash(hdr.Name))
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return "", err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return "", err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode)&0o777)
			if err != nil {
				return "", err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return "", err
			}
			if err := f.Close(); err != nil {
				return "", err
			}
		default:
			// symlinks, devices and the rest are not part of a skill pack
			continue
		}
	}

	entries, err := os.ReadDir(scratch)
	if err != nil {
		return "", err
	}

	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		}
	}
	if len(dirs) == 0 {
		return "", fmt.Errorf("%w: archive has no top-level directory", ErrArchive)
	}
	sort.Strings(dirs)
	return filepath.Join(scratch, dirs[0]), nil
}
