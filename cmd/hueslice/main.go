// HueSlice - Colour model conversion and HSV gradient rasters.
//
// Usage:
//
//	hueslice convert <code>
//	hueslice slice -o <file> [--hue <deg|code>] [options]
//	hueslice spectrum -o <file> [options]
//	hueslice card -o <file> --color <code> [--layout <path>]
//	hueslice preview [--hue <deg|code>]
//	hueslice serve [--port 8080]
//	hueslice init
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/xob0t/hueslice/clients/server"
	"github.com/xob0t/hueslice/pkg/codec"
	"github.com/xob0t/hueslice/pkg/generator"
	"github.com/xob0t/hueslice/pkg/swatch"
)

func main() {
	args := os.Args[1:]
	level := slog.LevelInfo
	if len(args) > 0 && (args[0] == "-v" || args[0] == "--verbose") {
		level = slog.LevelDebug
		args = args[1:]
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch args[0] {
	case "convert":
		err = runConvert(args[1:], os.Stdout)
	case "slice":
		err = runSlice(args[1:], false)
	case "spectrum":
		err = runSlice(args[1:], true)
	case "card":
		err = runCard(args[1:])
	case "preview":
		err = runPreview(args[1:], os.Stdout)
	case "serve":
		err = server.RunServe(args[1:])
	case "init":
		err = runInit(args[1:])
	case "help", "-h", "--help":
		printUsage()
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		fatal(err)
	}
}

// runConvert prints a colour code in every format, or only in --to.
func runConvert(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	to := fs.String("to", "", "Output format: hex, rgb or hsv (default: all)")
	units := fs.Bool("units", true, "Include unit prefixes (r:, h:, ...)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	text := strings.Join(fs.Args(), " ")
	if text == "" {
		return fmt.Errorf("a colour code is required")
	}

	c, from, err := codec.Detect(text)
	if err != nil {
		return err
	}
	slog.Debug("detected", "format", from, "color", c)

	formats := []codec.Format{codec.Hex, codec.RGB, codec.HSV}
	if *to != "" {
		f, err := codec.ParseFormat(*to)
		if err != nil {
			return err
		}
		formats = []codec.Format{f}
	}
	for _, f := range formats {
		fmt.Fprintln(out, codec.FormatAs(c, f, *units))
	}
	return nil
}

// runSlice writes the slice (or the hue spectrum) to a PNG, BMP or AVI file.
func runSlice(args []string, spectrum bool) error {
	name := "slice"
	if spectrum {
		name = "spectrum"
	}
	fs := flag.NewFlagSet(name, flag.ExitOnError)

	var (
		output   string
		hue      string
		width    int
		height   int
		duration int
		sweep    bool
	)

	fs.StringVar(&output, "o", "", "Output file path (.png, .bmp or .avi)")
	fs.StringVar(&output, "output", "", "Output file path (.png, .bmp or .avi)")
	fs.StringVar(&hue, "hue", "0", "Hue in degrees, a colour code, or 'random'")
	fs.IntVar(&width, "w", 256, "Width in pixels")
	fs.IntVar(&width, "width", 256, "Width in pixels")
	fs.IntVar(&height, "h", 256, "Height in pixels")
	fs.IntVar(&height, "height", 256, "Height in pixels")
	fs.IntVar(&duration, "duration", 1, "Duration in seconds (AVI only)")
	fs.BoolVar(&sweep, "sweep", false, "Rotate the hue through a full turn (AVI only)")

	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return err
	}

	if output == "" {
		printUsage()
		return fmt.Errorf("output file is required (-o)")
	}

	h, err := generator.ParseHue(hue)
	if err != nil {
		return err
	}

	cfg := generator.Config{
		Width:    width,
		Height:   height,
		Duration: duration,
		Hue:      h,
		Sweep:    sweep,
		Spectrum: spectrum,
	}

	slog.Info("generating", "output", output, "hue", h, "size", fmt.Sprintf("%dx%d", width, height))
	if err := generator.Generate(output, cfg); err != nil {
		return err
	}
	fmt.Printf("Done: %s\n", output)
	return nil
}

// runCard renders a preview card and writes it through the generator, so
// cards can be PNG, BMP or a still AVI.
func runCard(args []string) error {
	fs := flag.NewFlagSet("card", flag.ExitOnError)
	var output, color, layoutPath string
	var duration int
	fs.StringVar(&output, "o", "", "Output file path (.png, .bmp or .avi)")
	fs.StringVar(&output, "output", "", "Output file path (.png, .bmp or .avi)")
	fs.StringVar(&color, "color", "", "Colour code: #RRGGBB, rgb(...) or hsv(...)")
	fs.StringVar(&layoutPath, "layout", "", "Card layout JSON (optional)")
	fs.IntVar(&duration, "duration", 1, "Duration in seconds (AVI only)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if output == "" || color == "" {
		return fmt.Errorf("card needs -o and --color")
	}

	c, _, err := codec.Detect(color)
	if err != nil {
		return err
	}

	layout := swatch.DefaultLayout()
	if layoutPath != "" {
		layout, err = swatch.ParseLayoutFile(layoutPath)
		if err != nil {
			return fmt.Errorf("load layout: %w", err)
		}
	}

	renderer, err := swatch.NewRenderer(layout)
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	img, err := renderer.Render(c)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	if err := generator.Generate(output, generator.Config{Image: img, Duration: duration}); err != nil {
		return err
	}
	fmt.Printf("Done: %s\n", output)
	return nil
}

func runInit(args []string) error {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	var layoutOut string
	fs.StringVar(&layoutOut, "layout", "layout.json", "Output path for sample card layout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := os.WriteFile(layoutOut, []byte(swatch.ExampleLayoutJSON()), 0644); err != nil {
		return fmt.Errorf("write layout: %w", err)
	}

	fmt.Printf("Created: %s\n", layoutOut)
	fmt.Printf("Run: hueslice card -o card.png --color \"#336699\" --layout %s\n", layoutOut)
	return nil
}

func fatal(err error) {
	slog.Error(err.Error())
	os.Exit(1)
}

func printUsage() {
	fmt.Print(`HueSlice — Colour Models and HSV Gradients (Pure Go)

USAGE:
    hueslice [-v] <command> [options]

COMMANDS:
    convert [--to hex|rgb|hsv] [--units=false] <code>
                           Print a colour code in other formats
    slice -o <file>        Write the saturation×value slice at a hue
    spectrum -o <file>     Write the hue spectrum
    card -o <file> --color <code> [--layout <path>]
                           Render a preview card
    preview [--hue <deg>]  Draw the slice in a truecolor terminal
    serve [--port 8080]    Start the web picker
    init [--layout <path>] Write a sample card layout

SLICE / SPECTRUM OPTIONS:
    -o, --output <path>    Output file (.png, .bmp or .avi)
    --hue <deg|code>       Hue 0–360, a colour code, or 'random' (default: 0)
    -w, --width <px>       Width in pixels (default: 256)
    -h, --height <px>      Height in pixels (default: 256)
    --duration <sec>       Video duration (default: 1)
    --sweep                Rotate the hue over the clip (AVI only)

EXAMPLES:
    hueslice convert "#FF8000"
    hueslice convert --to hsv "rgb(255, 128, 0)"
    hueslice slice -o slice.png --hue 210
    hueslice slice -o sweep.avi --sweep --duration 4
    hueslice spectrum -o bar.bmp -w 360 -h 24
    hueslice card -o card.png --color "hsv(h:30, s:80, v:90)"
    hueslice preview --hue "#336699"
`)
}
