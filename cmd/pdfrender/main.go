// Command pdfrender renders PDF pages from the command line.
// It drives the same registry and render pipeline the embedding API uses.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"

	pdfrender "github.com/Anglefish/flutter-pdf-render"
	"github.com/Anglefish/flutter-pdf-render/buffer"

	// Import the MuPDF engine so it registers via init().
	_ "github.com/Anglefish/flutter-pdf-render/engine/fitz"
)

// CLI defines the command-line interface for pdfrender.
var CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Info    InfoCmd    `cmd:"" help:"Print document info and page sizes"`
	Render  RenderCmd  `cmd:"" help:"Render a page region to a PNG file"`
	Engines EnginesCmd `cmd:"" help:"List registered decode engines"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// InfoCmd prints document metadata and per-page sizes.
type InfoCmd struct {
	Path string `arg:"" help:"Document to inspect" type:"existingfile"`
}

func (c *InfoCmd) Run() error {
	registry := pdfrender.NewRegistry()
	defer registry.CloseAll()

	info, err := registry.OpenFile(c.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.Path, err)
	}

	fmt.Printf("Document: %s\n", c.Path)
	fmt.Printf("Pages:    %d\n", info.PageCount)
	fmt.Printf("Format:   %d.%d\n", info.VerMajor, info.VerMinor)
	for n := 1; n <= info.PageCount; n++ {
		pi, err := registry.PageInfo(info.ID, n)
		if err != nil {
			return fmt.Errorf("page %d: %w", n, err)
		}
		fmt.Printf("  page %3d: %.1f x %.1f pt\n", n, pi.Width, pi.Height)
	}
	return nil
}

// RenderCmd renders one page region through the buffer arena and encodes
// it as PNG.
type RenderCmd struct {
	Path       string `arg:"" help:"Document to render" type:"existingfile"`
	Page       int    `short:"p" default:"1" help:"1-based page number"`
	Width      int    `short:"W" help:"Region width in pixels (default: page width)"`
	Height     int    `short:"H" help:"Region height in pixels (default: page height)"`
	X          int    `help:"Region x offset in the full render"`
	Y          int    `help:"Region y offset in the full render"`
	FullWidth  int    `help:"Full render width (default: region width)"`
	FullHeight int    `help:"Full render height (default: region height)"`
	NoFill     bool   `help:"Skip the opaque white background fill"`
	Out        string `short:"o" default:"page.png" help:"Output PNG path" type:"path"`
}

func (c *RenderCmd) Run() error {
	registry := pdfrender.NewRegistry()
	defer registry.CloseAll()
	arena := buffer.NewArena()
	defer arena.Close()
	pipeline := pdfrender.NewPipeline(registry, arena)

	info, err := registry.OpenFile(c.Path)
	if err != nil {
		return fmt.Errorf("open %s: %w", c.Path, err)
	}

	res, err := pipeline.Render(pdfrender.RenderRequest{
		DocID:          info.ID,
		PageNumber:     c.Page,
		X:              c.X,
		Y:              c.Y,
		Width:          c.Width,
		Height:         c.Height,
		FullWidth:      c.FullWidth,
		FullHeight:     c.FullHeight,
		BackgroundFill: !c.NoFill,
	})
	if err != nil {
		return fmt.Errorf("render page %d: %w", c.Page, err)
	}
	defer arena.Release(res.Addr)

	data, ok := arena.Bytes(res.Addr)
	if !ok {
		return fmt.Errorf("render buffer %#x not tracked", res.Addr)
	}
	pix := pdfrender.WrapPixmap(res.Width, res.Height, data)
	if err := pix.SavePNG(c.Out); err != nil {
		return fmt.Errorf("write %s: %w", c.Out, err)
	}

	fmt.Printf("Rendered page %d to %s (%dx%d, %d bytes)\n",
		c.Page, c.Out, res.Width, res.Height, res.Size)
	return nil
}

// EnginesCmd lists registered decode engines.
type EnginesCmd struct{}

func (EnginesCmd) Run() error {
	avail := make(map[string]bool)
	for _, name := range pdfrender.AvailableEngines() {
		avail[name] = true
	}
	for _, name := range pdfrender.Engines() {
		status := "unavailable"
		if avail[name] {
			status = "available"
		}
		fmt.Printf("%-12s %s\n", name, status)
	}
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (VersionCmd) Run() error {
	fmt.Printf("pdfrender %s\n", pdfrender.Version)
	return nil
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("pdfrender"),
		kong.Description("Render PDF pages to buffers, PNG files and textures"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	if CLI.Verbose {
		pdfrender.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
