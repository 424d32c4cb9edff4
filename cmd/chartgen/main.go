package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/chordworks/chartgen"
	"github.com/chordworks/chartgen/internal/cli"
	"github.com/chordworks/chartgen/internal/pipeline"
	"github.com/chordworks/chartgen/internal/render"
)

func main() {
	var (
		inPath       string
		types        string
		noDetect     bool
		manifestOnly bool
		width        int
		scale        float64
		accent       string
		debug        bool
	)
	flag.StringVar(&inPath, "in", "", "Input .chart.md file or directory")
	flag.StringVar(&types, "types", "", "Comma-separated block types to extract (default: all)")
	flag.BoolVar(&noDetect, "no-detect", false, "Disable heuristic progression detection")
	flag.BoolVar(&manifestOnly, "manifest-only", false, "Write only the manifest, no rendered output")
	flag.IntVar(&width, "width", render.DefaultOptions.Width, "Rendered image width")
	flag.Float64Var(&scale, "scale", render.DefaultOptions.Scale, "Rendered image pixel scale")
	flag.StringVar(&accent, "accent", render.DefaultOptions.AccentColor, "Accent color for rendered titles")
	flag.BoolVar(&debug, "debug", false, "Enable debug logging")
	flag.Parse()

	if debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if inPath == "" {
		fmt.Println("Please provide an input file or directory with -in")
		os.Exit(1)
	}

	typeFilter, err := parseTypes(types)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	opts := pipeline.Options{
		Extract: chartgen.ExtractOptions{
			Types:    typeFilter,
			NoDetect: noDetect,
		},
		Render: render.Options{
			Width:       width,
			Scale:       scale,
			AccentColor: accent,
		},
		ManifestOnly: manifestOnly,
	}

	slog.Debug("running with options", "opts", opts.Pretty())

	processor := cli.NewProcessor(opts)
	results, err := processor.ProcessPath(inPath)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	for _, r := range results {
		fmt.Printf("Extracted %d blocks from %s into %s\n", r.Blocks, r.Path, r.OutDir)
	}
}

func parseTypes(s string) ([]chartgen.BlockType, error) {
	if s == "" {
		return nil, nil
	}

	var out []chartgen.BlockType
	for _, part := range strings.Split(s, ",") {
		t := chartgen.BlockType(strings.TrimSpace(part))
		if !chartgen.KnownType(t) {
			return nil, fmt.Errorf("unrecognized block type %q", t)
		}
		out = append(out, t)
	}
	return out, nil
}
