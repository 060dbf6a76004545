package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func usage() {
	fmt.Fprint(os.Stderr, `Usage:
  tti encode [-max-ratio R] [-portrait] [-show-bytes] <input> [output.{png,qoi}]
  tti decode [-print-decoded] [-print-encoded] <image> [output]
`)
	os.Exit(1)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	var err error
	switch os.Args[1] {
	case "encode":
		err = runEncode(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, os.Args[1], "error:", err)
		os.Exit(1)
	}
}

func runEncode(args []string) error {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	maxRatio := fs.Float64("max-ratio", defaultMaxRatio, "maximum width:height or height:width ratio (>= 1)")
	portrait := fs.Bool("portrait", false, "prefer height >= width")
	showBytes := fs.Bool("show-bytes", false, "print the packed channel stream as hex")
	fs.Parse(args)
	if fs.NArg() < 1 || fs.NArg() > 2 {
		usage()
	}
	if *maxRatio < 1 {
		return fmt.Errorf("max-ratio must be >= 1, got %g", *maxRatio)
	}
	input := fs.Arg(0)
	output := fs.Arg(1)
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
	}

	payload, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	cfg := DefaultConfig()
	cfg.MaxRatio = *maxRatio
	cfg.Portrait = *portrait

	plan, err := cfg.Plan(len(payload))
	if err != nil {
		return err
	}
	img, err := cfg.Encode(payload, plan)
	if err != nil {
		return err
	}
	if *showBytes {
		dumpBytes(os.Stdout, cfg.stream(img))
	}
	if err := writeImage(output, img); err != nil {
		return err
	}
	fmt.Printf("Encoded %s (%d bytes) → %s (%dx%d)\n", input, len(payload), output, plan.Width, plan.Height)
	return nil
}

func runDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ExitOnError)
	printDecoded := fs.Bool("print-decoded", false, "write the recovered payload to stdout")
	printEncoded := fs.Bool("print-encoded", false, "print the raw channel stream as hex")
	fs.Parse(args)
	if fs.NArg() < 1 || fs.NArg() > 2 {
		usage()
	}
	input := fs.Arg(0)

	src, err := readImage(input)
	if err != nil {
		return err
	}

	cfg := DefaultConfig()
	if *printEncoded {
		dumpBytes(os.Stdout, cfg.stream(toRGBA(src)))
	}
	payload, err := cfg.Decode(src)
	if err != nil {
		return err
	}
	if *printDecoded {
		os.Stdout.Write(payload)
	}
	if output := fs.Arg(1); output != "" {
		if err := os.WriteFile(output, payload, 0o644); err != nil {
			return err
		}
		fmt.Printf("Decoded %s → %s (%d bytes)\n", input, output, len(payload))
	}
	return nil
}
