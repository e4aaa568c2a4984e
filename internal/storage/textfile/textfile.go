// Package textfile implements the line-oriented storage format shared by all
// repositories: one record per line, `#`-prefixed comment lines and blank
// lines ignored. Writes go through a temp file and rename so a crash mid-save
// never leaves a half-written data file.
package textfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ReadLines streams every record line of the file at path to fn, skipping
// blank lines and comments. A missing file is not an error: the caller sees
// an empty dataset, which is how a fresh install looks.
func ReadLines(path string, fn func(line string) error) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := fn(line); err != nil {
			return err
		}
	}
	return sc.Err()
}

// WriteLines atomically rewrites the file at path with an optional header
// comment followed by one record per line.
func WriteLines(path string, header string, lines []string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	if header != "" {
		fmt.Fprintf(w, "# %s\n", header)
	}
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
