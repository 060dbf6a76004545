package main

import (
	"bufio"
	"fmt"
	"image"
	"image/draw"
	"io"
)

// toRGBA copies any image.Image into an *image.RGBA with bounds starting at (0,0).
func toRGBA(src image.Image) *image.RGBA {
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst
}

// dumpBytes writes b as space-separated two-digit hex, 32 bytes per line.
func dumpBytes(w io.Writer, b []byte) {
	bw := bufio.NewWriter(w)
	for i, v := range b {
		if i > 0 {
			if i%32 == 0 {
				bw.WriteByte('\n')
			} else {
				bw.WriteByte(' ')
			}
		}
		fmt.Fprintf(bw, "%02x", v)
	}
	if len(b) > 0 {
		bw.WriteByte('\n')
	}
	bw.Flush()
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
