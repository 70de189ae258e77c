// plytool is a CLI utility for inspecting and previewing PLY mesh files.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"go.uber.org/zap"

	"github.com/Faultbox/plykit/internal/config"
	"github.com/Faultbox/plykit/internal/logger"
	"github.com/Faultbox/plykit/internal/raster"
	"github.com/Faultbox/plykit/pkg/mesh"
	"github.com/Faultbox/plykit/pkg/ply"
)

func main() {
	// Parse global flags first (-config, -debug)
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	rest := args[1:]

	switch command {
	case "info":
		cmdInfo(rest)
	case "stats":
		cmdStats(cfg, rest)
	case "preview":
		cmdPreview(cfg, rest)
	case "config":
		cmdConfig(rest)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`plytool - PLY mesh file utility

Usage:
  plytool [global options] <command> [options] <file.ply>

Global options:
  -config <path>  Use a specific config file
  -debug          Enable debug logging

Commands:
  info <file.ply>               Show the header schema without decoding data
  stats [options] <file.ply>    Decode the file and summarize its contents
  preview [options] <file.ply>  Render the mesh to a WebP image
  config init                   Write the default config file
  config path                   Print the config file location

Stats options:
  -no-normals   Skip the normal channel
  -no-uvs       Skip texture coordinates
  -no-colors    Skip vertex colors

Preview options:
  -o <file.webp>  Output path (default: input name with .webp)
  -size <N>       Image edge length in pixels
  -ss <N>         Supersampling factor

Examples:
  plytool info bunny.ply
  plytool stats -no-colors bunny.ply
  plytool preview -size 256 bunny.ply`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: plytool info <file.ply>")
		os.Exit(1)
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	hdr, err := ply.ReadHeader(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:    %s\n", args[0])
	fmt.Printf("Format:  %s %s\n", hdr.Format, hdr.Version)
	fmt.Printf("Data at: byte %d\n", hdr.DataOffset)

	if len(hdr.Comments) > 0 {
		fmt.Println("Comments:")
		for _, c := range hdr.Comments {
			fmt.Printf("  %s\n", c)
		}
	}

	fmt.Println("Elements:")
	for _, elem := range hdr.Elements {
		fmt.Printf("  %s (%d)\n", elem.Name, elem.Count)
		for _, p := range elem.Properties {
			fmt.Printf("    %s\n", p)
		}
	}
}

func cmdStats(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	noNormals := fs.Bool("no-normals", false, "Skip the normal channel")
	noUVs := fs.Bool("no-uvs", false, "Skip texture coordinates")
	noColors := fs.Bool("no-colors", false, "Skip vertex colors")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: plytool stats [options] <file.ply>")
		os.Exit(1)
	}

	opts := ply.Options{
		SkipNormals: *noNormals,
		SkipUVs:     *noUVs,
		SkipColors:  *noColors,
		Channels:    channelMap(cfg),
	}

	res, err := ply.ReadFile(fs.Arg(0), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logWarnings(res.Warnings)

	m := mesh.FromResult(res)

	fmt.Printf("File:      %s\n", fs.Arg(0))
	fmt.Printf("Vertices:  %d\n", m.PointCount())
	fmt.Printf("Triangles: %d\n", m.TriangleCount())
	fmt.Printf("Channels:  normals=%s uvs=%s colors=%s\n",
		yesNo(m.HasNormals()), yesNo(m.HasUVs()), yesNo(m.HasColors()))
	if m.IsPointCloud() {
		fmt.Println("Kind:      point cloud")
	}

	if m.PointCount() > 0 {
		min, max := m.Bounds()
		center := m.Center()
		fmt.Printf("Bounds:    min (%g, %g, %g)  max (%g, %g, %g)\n",
			min.X(), min.Y(), min.Z(), max.X(), max.Y(), max.Z())
		fmt.Printf("Center:    (%g, %g, %g)\n", center.X(), center.Y(), center.Z())
		fmt.Printf("Radius:    %g\n", m.Radius())
	}
}

func cmdPreview(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("preview", flag.ExitOnError)
	outPath := fs.String("o", "", "Output path")
	size := fs.Int("size", cfg.Preview.Size, "Image edge length in pixels")
	supersample := fs.Int("ss", cfg.Preview.Supersample, "Supersampling factor")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: plytool preview [options] <file.ply>")
		os.Exit(1)
	}
	inPath := fs.Arg(0)

	background, err := parseHexColor(cfg.Preview.Background)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	res, err := ply.ReadFile(inPath, ply.Options{Channels: channelMap(cfg)})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logWarnings(res.Warnings)

	m := mesh.FromResult(res)
	logger.Debug("rendering preview",
		zap.Int("points", m.PointCount()),
		zap.Int("triangles", m.TriangleCount()),
		zap.Int("size", *size),
		zap.Int("supersample", *supersample))

	img := raster.Render(m, raster.Options{
		Size:        *size,
		Supersample: *supersample,
		Background:  background,
	})

	out := *outPath
	if out == "" {
		out = strings.TrimSuffix(inPath, filepath.Ext(inPath)) + ".webp"
	}

	f, err := os.Create(out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating output: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding image: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote: %s (%dx%d)\n", out, *size, *size)
}

func cmdConfig(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: plytool config <init|path>")
		os.Exit(1)
	}

	path := filepath.Join(config.ConfigDir(), "config.yaml")

	switch args[0] {
	case "init":
		if err := config.Default().Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote: %s\n", path)
	case "path":
		fmt.Println(path)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		os.Exit(1)
	}
}

// channelMap merges configured extra property names into the default
// channel map. Returns nil when there is nothing to add.
func channelMap(cfg *config.Config) *ply.ChannelMap {
	ch := cfg.Channels
	if len(ch.ExtraUVPairs) == 0 && len(ch.ExtraColorTriples) == 0 && len(ch.ExtraIndexNames) == 0 {
		return nil
	}

	cm := ply.DefaultChannelMap()
	cm.UV = append(cm.UV, ch.ExtraUVPairs...)
	cm.Color = append(cm.Color, ch.ExtraColorTriples...)
	cm.Indices = append(cm.Indices, ch.ExtraIndexNames...)
	return &cm
}

func logWarnings(warnings []string) {
	for _, w := range warnings {
		logger.Warn("decode warning", zap.String("detail", w))
	}
}

func parseHexColor(s string) ([3]uint8, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return [3]uint8{}, fmt.Errorf("invalid color %q: want #RRGGBB", s)
	}
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return [3]uint8{}, fmt.Errorf("invalid color %q: %v", s, err)
	}
	return [3]uint8{uint8(n >> 16), uint8(n >> 8), uint8(n)}, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
