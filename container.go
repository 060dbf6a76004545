package main

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/xfmoulet/qoi"
)

// writeImage saves the grid to path, picking the container by extension:
// .qoi via the QOI codec, anything else via PNG. Both are lossless, which
// the round trip depends on.
func writeImage(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()

	if strings.EqualFold(filepath.Ext(path), ".qoi") {
		return qoi.Encode(out, img)
	}
	return png.Encode(out, img)
}

// readImage loads a grid from any registered container. PNG comes with
// image/png; QOI registers itself on import. Lossy formats are
// deliberately not registered, a recompressed grid cannot round-trip.
func readImage(path string) (image.Image, error) {
	in, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}
