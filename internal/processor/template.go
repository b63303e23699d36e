package processor

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"lentiplate/internal/frame"
	"lentiplate/pkg/imgutil"
)

const DefaultTemplatesDir = "mires_templates"

// TemplateCandidates lists the paths tried for the settings, in order:
// {dir}/{HDPI}x{VDPI}/{LPI}.png with the LPI written as "50.0", then "50".
func TemplateCandidates(dir string, s frame.PrintSettings) []string {
	sub := filepath.Join(dir, fmt.Sprintf("%dx%d", s.HDPI, s.VDPI))
	names := []string{strconv.FormatFloat(s.LPI, 'f', 1, 64)}
	if short := strconv.FormatFloat(s.LPI, 'f', -1, 64); short != names[0] {
		names = append(names, short)
	}
	paths := make([]string, 0, len(names))
	for _, n := range names {
		paths = append(paths, filepath.Join(sub, n+".png"))
	}
	return paths
}

func ResolveTemplate(dir string, s frame.PrintSettings) (string, error) {
	if dir == "" {
		dir = DefaultTemplatesDir
	}
	candidates := TemplateCandidates(dir, s)
	for _, p := range candidates {
		info, err := os.Stat(p)
		if err == nil && info.Mode().IsRegular() {
			return p, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	return "", fmt.Errorf("no mire template for %g lpi at %dx%d dpi (tried %v)", s.LPI, s.HDPI, s.VDPI, candidates)
}

// loadTemplate returns nil when the mode does not use a template.
func loadTemplate(opts Options) (*image.NRGBA, string, error) {
	if !opts.Plate.Mode.NeedsMire() {
		return nil, "", nil
	}
	path := opts.MirePath
	if path == "" {
		resolved, err := ResolveTemplate(opts.TemplatesDir, opts.Plate.Settings)
		if err != nil {
			return nil, "", err
		}
		path = resolved
	}
	img, _, err := imgutil.DecodeFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("load mire template: %w", err)
	}
	return img, path, nil
}
