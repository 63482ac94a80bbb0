// heighttool is a headless CLI for generating, exporting and streaming landscapes.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"github.com/Faultbox/landsculpt/internal/clipmap"
	"github.com/Faultbox/landsculpt/internal/config"
	"github.com/Faultbox/landsculpt/internal/heightmap"
	"github.com/Faultbox/landsculpt/internal/landscape"
	"github.com/Faultbox/landsculpt/internal/logger"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "export", "x":
		cmdExport(args)
	case "fly":
		cmdFly(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`heighttool - landscape generation and clipmap streaming utility

Usage:
  heighttool <command> [options]

Commands:
  info   [options]                 Show field, topology and ring layout
  export [options] <out.png|.tiff|.bmp>
                                   Write the generated heightfield as an image
  fly    [options]                 Move the camera in a straight line and report streaming work

Common options:
  -rim N -clipmaps N -spacing F -seed N -amplitude F -octaves N -v

Examples:
  heighttool info -rim 8
  heighttool export -seed 7 terrain.tiff
  heighttool fly -steps 100 -speed 40 -heading 30`)
}

// landscapeFlags registers the landscape options shared by every command.
func landscapeFlags(fs *flag.FlagSet) func() landscape.Config {
	def := config.Default().Landscape()
	rim := fs.Int("rim", def.Rim, "Clipmap rim width")
	clipmaps := fs.Int("clipmaps", def.Clipmaps, "Number of clipmap rings")
	spacing := fs.Float64("spacing", float64(def.Spacing), "World units between samples")
	seed := fs.Int64("seed", def.Generate.Seed, "Terrain seed")
	amplitude := fs.Float64("amplitude", float64(def.Generate.Amplitude), "Peak height")
	octaves := fs.Int("octaves", def.Generate.Octaves, "Noise octaves")
	verbose := fs.Bool("v", false, "Debug logging to stderr")

	return func() landscape.Config {
		if *verbose {
			opts := logger.DefaultOptions()
			opts.Level = "debug"
			if err := logger.Init(opts); err != nil {
				fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
			}
		}
		cfg := def
		cfg.Rim = *rim
		cfg.Clipmaps = *clipmaps
		cfg.Spacing = float32(*spacing)
		cfg.Generate.Seed = *seed
		cfg.Generate.Amplitude = float32(*amplitude)
		cfg.Generate.Octaves = *octaves
		return cfg
	}
}

func build(cfg landscape.Config) *landscape.Landscape {
	land, err := landscape.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return land
}

func cmdInfo(args []string) {
	fs := flag.NewFlagSet("info", flag.ExitOnError)
	landCfg := landscapeFlags(fs)
	fs.Parse(args)
	defer logger.Sync()

	land := build(landCfg())
	field := land.Field()
	topo := land.Topology()
	lo, hi := field.MinMax()

	fmt.Printf("Field:     %d x %d samples, %.1f world units\n", field.Size(), field.Size(), land.Extent())
	fmt.Printf("Heights:   %.2f .. %.2f\n", lo, hi)
	fmt.Printf("Ring:      %d cells wide, hole %d, cache %d\n", topo.Width, topo.HoleWidth, land.Streamer().CacheSize())
	fmt.Printf("Vertices:  %d\n", topo.VertexCount())
	fmt.Println()
	fmt.Println("Index sets:")
	for id := clipmap.SetID(0); id < clipmap.SetCount; id++ {
		fmt.Printf("  %-8s %d\n", id, len(topo.Set(id)))
	}
	fmt.Println()
	fmt.Println("Rings:")
	for _, r := range land.Rings() {
		oi, oj := r.Origin()
		fmt.Printf("  %2d  scale %-6d origin (%d, %d)  parity %s  set %s\n",
			r.Level, r.Scale, oi, oj, r.Parity(), clipmap.SetFor(r.Level, r.Parity()))
	}
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	landCfg := landscapeFlags(fs)
	fs.Parse(args)
	defer logger.Sync()

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: heighttool export [options] <out.png|out.tiff|out.bmp>")
		os.Exit(1)
	}
	out := fs.Arg(0)

	land := build(landCfg())
	if err := heightmap.Save(out, land.Field()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Exported: %s (%d x %d)\n", out, land.Field().Size(), land.Field().Size())
}

func cmdFly(args []string) {
	fs := flag.NewFlagSet("fly", flag.ExitOnError)
	landCfg := landscapeFlags(fs)
	steps := fs.Int("steps", 60, "Number of moves")
	speed := fs.Float64("speed", 8, "World units per move")
	heading := fs.Float64("heading", 0, "Direction in degrees, 0 is +X")
	quiet := fs.Bool("q", false, "Only print the totals")
	fs.Parse(args)
	defer logger.Sync()

	land := build(landCfg())
	rad := *heading * math.Pi / 180
	dx, dz := *speed*math.Cos(rad), *speed*math.Sin(rad)

	var total clipmap.Stats
	for i := 0; i < *steps; i++ {
		st := land.Move(dx, dz)
		total.Rings += st.Rings
		total.Cells += st.Cells
		if !*quiet && st.Rings > 0 {
			x, y := land.Offset()
			fmt.Printf("step %4d  offset (%9.2f, %9.2f)  rings %2d  cells %d\n", i+1, x, y, st.Rings, st.Cells)
		}
	}

	cache := land.Streamer().CacheSize()
	full := *steps * len(land.Rings()) * cache * cache
	fmt.Fprintf(os.Stderr, "\n%d moves: %d ring patches, %d cells resampled (%.1f%% of full reloads)\n",
		*steps, total.Rings, total.Cells, 100*float64(total.Cells)/float64(max(full, 1)))
}
