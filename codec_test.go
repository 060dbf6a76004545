package main

import (
	"encoding/binary"
	"errors"
	"image"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// makePayload returns n pseudo-random bytes, deterministic per length.
func makePayload(n int) []byte {
	b := make([]byte, n)
	rng := rand.New(rand.NewSource(int64(n) + 1))
	rng.Read(b)
	return b
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	for _, tc := range []struct {
		name string
		n    int
		cfg  Config
	}{
		{name: "empty", n: 0, cfg: DefaultConfig()},
		{name: "one_byte", n: 1, cfg: DefaultConfig()},
		{name: "pixel_boundary", n: 4, cfg: DefaultConfig()},
		{name: "small", n: 100, cfg: DefaultConfig()},
		{name: "large", n: 1 << 20, cfg: DefaultConfig()},
		{name: "wide_ratio", n: 10_000, cfg: Config{Channels: 3, HeaderSize: 8, MaxRatio: 1.78}},
		{name: "single_channel", n: 500, cfg: Config{Channels: 1, HeaderSize: 8, MaxRatio: 2.0}},
		{name: "four_channels", n: 500, cfg: Config{Channels: 4, HeaderSize: 8, MaxRatio: 2.0}},
		{name: "short_header", n: 200, cfg: Config{Channels: 3, HeaderSize: 2, MaxRatio: 2.0}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			payload := makePayload(tc.n)

			plan, err := tc.cfg.Plan(len(payload))
			if err != nil {
				t.Fatalf("Plan: %v", err)
			}
			img, err := tc.cfg.Encode(payload, plan)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := tc.cfg.Decode(img)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if diff := cmp.Diff(payload, got); diff != "" {
				t.Fatalf("payload mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncode_StreamLayout(t *testing.T) {
	cfg := DefaultConfig()
	payload := makePayload(5)

	plan, err := cfg.Plan(len(payload))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	img, err := cfg.Encode(payload, plan)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	stream := cfg.stream(img)
	if got := binary.BigEndian.Uint64(stream[:8]); got != uint64(len(payload)) {
		t.Fatalf("length field = %d, want %d", got, len(payload))
	}
	if diff := cmp.Diff(payload, stream[8:8+len(payload)]); diff != "" {
		t.Fatalf("payload region mismatch (-want +got):\n%s", diff)
	}
	for i := 8 + len(payload); i < len(stream); i++ {
		if stream[i] != 0 {
			t.Fatalf("padding byte %d is %#02x, want 0", i, stream[i])
		}
	}
}

func TestEncode_Deterministic(t *testing.T) {
	cfg := DefaultConfig()
	payload := makePayload(257)

	plan, err := cfg.Plan(len(payload))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	a, err := cfg.Encode(payload, plan)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	b, err := cfg.Encode(payload, plan)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if diff := cmp.Diff(a.Pix, b.Pix); diff != "" {
		t.Fatalf("encode not deterministic (-first +second):\n%s", diff)
	}
}

func TestEncode_CapacityExceeded(t *testing.T) {
	cfg := DefaultConfig()
	// 2x2x3 holds 12 bytes, header alone needs 8
	if _, err := cfg.Encode(makePayload(100), Plan{Width: 2, Height: 2}); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("got %v, want ErrCapacityExceeded", err)
	}
}

func TestEncode_HeaderOverflow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HeaderSize = 1
	payload := makePayload(256)

	plan, err := cfg.Plan(len(payload))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if _, err := cfg.Encode(payload, plan); !errors.Is(err, ErrCapacityExceeded) {
		t.Fatalf("256 bytes with 1-byte header: got %v, want ErrCapacityExceeded", err)
	}
}

func TestDecode_CorruptHeader(t *testing.T) {
	cfg := DefaultConfig()

	plan, err := cfg.Plan(0)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	img, err := cfg.Encode(nil, plan)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// declare more payload than the grid can hold
	var hdr [8]byte
	binary.BigEndian.PutUint64(hdr[:], uint64(cfg.capacity(plan.Width, plan.Height)))
	cfg.writeStream(img, 0, hdr[:])

	if _, err := cfg.Decode(img); !errors.Is(err, ErrCorruptHeader) {
		t.Fatalf("got %v, want ErrCorruptHeader", err)
	}
}

func TestDecode_GridSmallerThanHeader(t *testing.T) {
	cfg := DefaultConfig()
	// 1x1x3 grid holds 3 bytes, the length field needs 8
	if _, err := cfg.Decode(image.NewRGBA(image.Rect(0, 0, 1, 1))); !errors.Is(err, ErrCorruptHeader) {
		t.Fatalf("got %v, want ErrCorruptHeader", err)
	}
}

func TestDecode_IgnoresPadding(t *testing.T) {
	cfg := DefaultConfig()
	payload := makePayload(10)

	plan, err := cfg.Plan(len(payload))
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	img, err := cfg.Encode(payload, plan)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// scribble over the padding region; decode must not care
	capacity := cfg.capacity(plan.Width, plan.Height)
	for pos := cfg.HeaderSize + len(payload); pos < capacity; pos++ {
		cfg.writeStream(img, pos, []byte{0xAB})
	}

	got, err := cfg.Decode(img)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if diff := cmp.Diff(payload, got); diff != "" {
		t.Fatalf("payload mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_BadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Channels = 5

	if _, err := cfg.Encode(nil, Plan{Width: 2, Height: 2}); !errors.Is(err, ErrBadConfig) {
		t.Fatalf("Encode: got %v, want ErrBadConfig", err)
	}
	if _, err := cfg.Decode(image.NewRGBA(image.Rect(0, 0, 4, 4))); !errors.Is(err, ErrBadConfig) {
		t.Fatalf("Decode: got %v, want ErrBadConfig", err)
	}
}
