package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/flowboard/pkg/session"
)

// loadSessionFile reads a diagram JSON file into a fresh session.
func (c *CLI) loadSessionFile(path string) (*session.Session, error) {
	cfg, err := c.Config()
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read diagram %s: %w", path, err)
	}

	sess := session.New(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), sessionOptions(cfg)...)
	if err := sess.ImportJSON(data); err != nil {
		return nil, fmt.Errorf("parse diagram %s: %w", path, err)
	}
	return sess, nil
}

// writeSessionFile exports the session to a diagram JSON file.
func writeSessionFile(sess *session.Session, path string) error {
	data, err := sess.ExportJSON()
	if err != nil {
		return fmt.Errorf("export diagram: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write diagram %s: %w", path, err)
	}
	return nil
}

// outputPath picks the output file: the explicit -o flag if set, otherwise
// the input path (in-place rewrite).
func outputPath(input, output string) string {
	if output != "" {
		return output
	}
	return input
}

// replaceExt swaps the input file's extension.
func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
