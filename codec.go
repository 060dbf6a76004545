// tti packs arbitrary bytes into the channels of a raster image and
// recovers them exactly. A fixed-width big-endian length field leads the
// channel stream, so decode returns the true payload length rather than
// the grid's padded capacity.

package main

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
)

var (
	// ErrBadConfig reports Channels or HeaderSize outside their valid range.
	ErrBadConfig = errors.New("tti: bad codec config")
	// ErrCapacityExceeded reports a grid too small for header plus payload.
	// Plans derived from the payload's own length never trip this.
	ErrCapacityExceeded = errors.New("tti: plan capacity exceeded")
	// ErrCorruptHeader reports a grid whose declared payload length cannot
	// fit in the grid, i.e. a truncated or non-conforming image.
	ErrCorruptHeader = errors.New("tti: corrupt header")
)

const (
	defaultChannels   = 3
	defaultHeaderSize = 8
	defaultMaxRatio   = 2.0
)

// Config carries the parameters shared by the planner and both codec
// directions. Encode and decode must agree on Channels and HeaderSize or
// the round trip breaks; Config is plain data, so differently
// parameterized codecs can run concurrently in one process.
type Config struct {
	// Channels is the number of data-carrying channels per pixel, 1 to 4,
	// filled in R, G, B, A order. With fewer than 4 the alpha channel is
	// pinned to 0xFF so the image stays opaque.
	Channels int
	// HeaderSize is the width in bytes of the big-endian length field,
	// 1 to 8.
	HeaderSize int
	// MaxRatio bounds width:height and height:width of planned grids.
	MaxRatio float64
	// Portrait makes the planner prefer height >= width.
	Portrait bool
}

// DefaultConfig returns the parameters the CLI uses: RGB channels, an
// 8-byte length field and a 2:1 ratio bound.
func DefaultConfig() Config {
	return Config{Channels: defaultChannels, HeaderSize: defaultHeaderSize, MaxRatio: defaultMaxRatio}
}

func (c Config) validate() error {
	if c.Channels < 1 || c.Channels > 4 {
		return fmt.Errorf("%w: channels %d out of range [1,4]", ErrBadConfig, c.Channels)
	}
	if c.HeaderSize < 1 || c.HeaderSize > 8 {
		return fmt.Errorf("%w: header size %d out of range [1,8]", ErrBadConfig, c.HeaderSize)
	}
	return nil
}

// capacity is the number of byte positions a w×h grid exposes.
func (c Config) capacity(w, h int) int {
	return w * h * c.Channels
}

// header renders the length field for a payload of n bytes.
func (c Config) header(n int) ([]byte, error) {
	if c.HeaderSize < 8 && n >= 1<<(8*c.HeaderSize) {
		return nil, fmt.Errorf("%w: payload length %d does not fit a %d-byte header",
			ErrCapacityExceeded, n, c.HeaderSize)
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(n))
	return buf[8-c.HeaderSize:], nil
}

// Encode packs the length header, the payload and zero padding into a
// fresh pixel grid of the planned dimensions. The channel stream is
// row-major, channel-minor: pixel (0,0) channels first, then (1,0) and so
// on. Decode inverts exactly this order, so it is part of the wire
// contract.
func (c Config) Encode(payload []byte, p Plan) (*image.RGBA, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	if p.Width < 1 || p.Height < 1 {
		return nil, fmt.Errorf("%w: invalid plan %dx%d", ErrCapacityExceeded, p.Width, p.Height)
	}
	capacity := c.capacity(p.Width, p.Height)
	need := c.HeaderSize + len(payload)
	if need > capacity {
		return nil, fmt.Errorf("%w: header+payload is %d bytes, %dx%dx%d grid holds %d",
			ErrCapacityExceeded, need, p.Width, p.Height, c.Channels, capacity)
	}
	hdr, err := c.header(len(payload))
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, p.Width, p.Height))
	if c.Channels < 4 {
		// Opaque alpha; the data channels stay zero until written, which
		// doubles as the padding value.
		for i := 3; i < len(img.Pix); i += 4 {
			img.Pix[i] = 0xFF
		}
	}
	c.writeStream(img, 0, hdr)
	c.writeStream(img, c.HeaderSize, payload)
	return img, nil
}

// Decode recovers the payload from a grid produced by Encode. Padding
// beyond header+payload is never read.
func (c Config) Decode(src image.Image) ([]byte, error) {
	if err := c.validate(); err != nil {
		return nil, err
	}
	img := toRGBA(src)
	w, h := img.Rect.Dx(), img.Rect.Dy()
	capacity := c.capacity(w, h)
	if capacity < c.HeaderSize {
		return nil, fmt.Errorf("%w: %dx%dx%d grid holds %d bytes, length field needs %d",
			ErrCorruptHeader, w, h, c.Channels, capacity, c.HeaderSize)
	}

	var hdr [8]byte
	c.readStream(img, 0, hdr[8-c.HeaderSize:])
	n := binary.BigEndian.Uint64(hdr[:])
	if n > uint64(capacity-c.HeaderSize) {
		return nil, fmt.Errorf("%w: declared payload length %d exceeds remaining capacity %d",
			ErrCorruptHeader, n, capacity-c.HeaderSize)
	}

	payload := make([]byte, int(n))
	c.readStream(img, c.HeaderSize, payload)
	return payload, nil
}

// writeStream copies b into the grid starting at channel-stream offset off.
func (c Config) writeStream(img *image.RGBA, off int, b []byte) {
	w := img.Rect.Dx()
	for i, v := range b {
		pos := off + i
		px := pos / c.Channels
		img.Pix[(px/w)*img.Stride+(px%w)*4+pos%c.Channels] = v
	}
}

// readStream fills b from the grid starting at channel-stream offset off.
func (c Config) readStream(img *image.RGBA, off int, b []byte) {
	w := img.Rect.Dx()
	for i := range b {
		pos := off + i
		px := pos / c.Channels
		b[i] = img.Pix[(px/w)*img.Stride+(px%w)*4+pos%c.Channels]
	}
}

// stream flattens the grid's data channels back into the linear channel
// stream, padding included. Used by the hex-dump flags.
func (c Config) stream(img *image.RGBA) []byte {
	out := make([]byte, c.capacity(img.Rect.Dx(), img.Rect.Dy()))
	c.readStream(img, 0, out)
	return out
}
