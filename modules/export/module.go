package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/specialistvlad/terragridgo/internal/attr"
	"github.com/specialistvlad/terragridgo/internal/graph"
	"github.com/specialistvlad/terragridgo/internal/hmap"
	"github.com/specialistvlad/terragridgo/internal/registry"
	"golang.org/x/image/tiff"
)

// Output formats.
const (
	FormatPNG = iota
	FormatTIFF
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// Dir resolves relative file names. Empty means the working directory.
	Dir string
}

// Register registers the "export" node type.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterNodeType(&graph.NodeType{
		Tag:         "export",
		Category:    "IO/Files",
		Description: "Writes the input as a 16-bit grayscale image and passes it through unchanged.",
		Ports: []graph.PortSpec{
			graph.Input("input", graph.DataHeightMap),
			graph.Output("output", graph.DataHeightMap),
		},
		Attributes: func() *attr.Bag {
			return attr.NewBag().
				Add("fname", attr.NewFilename("hmap.png")).
				Add("format", attr.NewMapEnum(map[string]int{"png": FormatPNG, "tiff": FormatTIFF}, "png")).
				Add("auto_export", attr.NewBool(true))
		},
		New: func() graph.Operator { return graph.OperatorFunc(m.compute) },
	})
}

func (m *Module) compute(_ context.Context, io *graph.IO) error {
	in := io.HeightMap("input")
	if err := io.OutHeightMap("output").CopyFrom(in); err != nil {
		return err
	}

	a := io.Attrs()
	if !a.Bool("auto_export") {
		return nil
	}

	path := a.Filename("fname")
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.Dir, path)
	}
	if err := WriteFile(path, in, a.Enum("format")); err != nil {
		return err
	}
	io.Logger().Info("Heightmap exported.", "path", path, "format", a.Choice("format"))
	return nil
}

// WriteFile writes h to path, creating parent directories.
func WriteFile(path string, h *hmap.HeightMap, format int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if err := Write(f, h, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes h as a 16-bit grayscale image, normalized to its range.
func Write(w io.Writer, h *hmap.HeightMap, format int) error {
	img := Gray16(h)
	switch format {
	case FormatPNG:
		return png.Encode(w, img)
	case FormatTIFF:
		return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	}
	return fmt.Errorf("unknown export format %d", format)
}

// Gray16 renders h with its minimum as black and its maximum as white.
// Row 0 is the top of the image.
func Gray16(h *hmap.HeightMap) *image.Gray16 {
	a := h.ToArray()
	lo, hi := a.MinMax()
	img := image.NewGray16(image.Rect(0, 0, a.Shape.X, a.Shape.Y))
	for j := 0; j < a.Shape.Y; j++ {
		for i := 0; i < a.Shape.X; i++ {
			var t float32
			if hi > lo {
				t = (a.At(i, j) - lo) / (hi - lo)
			}
			img.SetGray16(i, j, color.Gray16{Y: uint16(t*65535 + 0.5)})
		}
	}
	return img
}
