// Package render turns a batch of codes into a printable HTML sheet of
// Code 128 barcodes.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image/png"
	"io"

	"aristo/pkg/codes"
	"aristo/pkg/utils"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
)

// Options controls how each barcode looks
type Options struct {
	Label     string // printed above every barcode
	BarWidth  int    // pixels per barcode module
	BarHeight int    // pixels
}

// DefaultOptions matches the printed label layout
func DefaultOptions() Options {
	return Options{Label: "Aristo", BarWidth: 2, BarHeight: 100}
}

// Item is one rendered barcode
type Item struct {
	Code   string
	Label  string
	Image  template.URL
	Width  int
	Height int
}

// Renderer draws barcode sheets
type Renderer struct {
	opts Options
}

// NewRenderer creates a renderer, filling unset options with defaults
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.BarWidth <= 0 {
		opts.BarWidth = def.BarWidth
	}
	if opts.BarHeight <= 0 {
		opts.BarHeight = def.BarHeight
	}
	return &Renderer{opts: opts}
}

// Barcode encodes a single code as a scaled Code 128 image
func (r *Renderer) Barcode(c codes.Code) (barcode.Barcode, error) {
	bc, err := code128.Encode(c.String())
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", c, err)
	}
	width := bc.Bounds().Dx() * r.opts.BarWidth
	scaled, err := barcode.Scale(bc, width, r.opts.BarHeight)
	if err != nil {
		return nil, fmt.Errorf("scale %s: %w", c, err)
	}
	return scaled, nil
}

// Item renders one code to an embeddable PNG
func (r *Renderer) Item(c codes.Code) (*Item, error) {
	bc, err := r.Barcode(c)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, bc); err != nil {
		return nil, fmt.Errorf("png %s: %w", c, err)
	}

	return &Item{
		Code:   c.String(),
		Label:  r.opts.Label,
		Image:  template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())),
		Width:  bc.Bounds().Dx(),
		Height: bc.Bounds().Dy(),
	}, nil
}

// Render writes the HTML sheet. Every entry of the batch is drawn, including
// repeats.
func (r *Renderer) Render(w io.Writer, batch []codes.Code) error {
	items := make([]*Item, 0, len(batch))
	for _, c := range batch {
		item, err := r.Item(c)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	return sheetTemplate.Execute(w, struct {
		Title string
		Items []*Item
	}{
		Title: r.opts.Label,
		Items: items,
	})
}

// RenderFile writes the sheet to path with owner-only permissions
func (r *Renderer) RenderFile(path string, batch []codes.Code) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, batch); err != nil {
		return err
	}
	return utils.WriteFile(path, buf.Bytes())
}
