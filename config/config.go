// Package config loads grid definitions from TOML or YAML files.
//
// A definition declares the grid settings, the column tree and, for tools
// that run without a rendering layer, a fixed viewport and row count:
//
//	[grid]
//	name = "orders"
//	height = "100%"
//
//	[viewport]
//	width = 1018
//	height = 600
//
//	[data]
//	rows = 1000
//
//	[[columns]]
//	field = "id"
//	width = "100px"
//	pinned = true
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/agiangrant/vgrid"
	"github.com/agiangrant/vgrid/column"
	"github.com/agiangrant/vgrid/dim"
)

// Format is the encoding of a definition file.
type Format string

const (
	TOML Format = "toml"
	YAML Format = "yaml"
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	default:
		return "", fmt.Errorf("unsupported definition file %q: want .toml, .yaml or .yml", path)
	}
}

// File is a decoded grid definition.
type File struct {
	Grid     Grid        `toml:"grid" yaml:"grid"`
	Viewport Viewport    `toml:"viewport" yaml:"viewport"`
	Data     Data        `toml:"data" yaml:"data"`
	Columns  []ColumnDef `toml:"columns,omitempty" yaml:"columns,omitempty"`
}

// Grid holds the grid settings. Zero values keep the defaults of
// vgrid.DefaultConfig. Dimensions are strings such as "100px", "25%" or "auto".
type Grid struct {
	Name             string       `toml:"name" yaml:"name"`
	Width            string       `toml:"width" yaml:"width"`
	Height           string       `toml:"height" yaml:"height"`
	RowHeight        float64      `toml:"rowHeight" yaml:"rowHeight"`
	HeaderRowHeight  float64      `toml:"headerRowHeight" yaml:"headerRowHeight"`
	ScrollbarSize    float64      `toml:"scrollbarSize" yaml:"scrollbarSize"`
	TargetRecords    int          `toml:"targetRecords" yaml:"targetRecords"`
	Overscan         int          `toml:"overscan" yaml:"overscan"`
	MaxExtraPasses   int          `toml:"maxExtraPasses" yaml:"maxExtraPasses"`
	RowSelectorWidth float64      `toml:"rowSelectorWidth" yaml:"rowSelectorWidth"`
	DragHandleWidth  float64      `toml:"dragHandleWidth" yaml:"dragHandleWidth"`
	ColumnWidth      string       `toml:"columnWidth" yaml:"columnWidth"`
	SnapToPixels     bool         `toml:"snapToPixels" yaml:"snapToPixels"`
	QuickFilter      bool         `toml:"quickFilter" yaml:"quickFilter"`
	PerPage          int          `toml:"perPage" yaml:"perPage"`
	Chrome           vgrid.Chrome `toml:"chrome" yaml:"chrome"`
}

// Viewport is the container size used when no rendering layer measures one.
type Viewport struct {
	Width  float64 `toml:"width" yaml:"width"`
	Height float64 `toml:"height" yaml:"height"`
}

// Data describes the rows. RemoteTotal, when set, is the total reported by
// a remote service and wins over Rows.
type Data struct {
	Rows        int `toml:"rows" yaml:"rows"`
	RemoteTotal int `toml:"remoteTotal" yaml:"remoteTotal"`
}

// ColumnDef declares one column. Columns with children are groups; a group
// with layout set is a multi-row layout block.
type ColumnDef struct {
	Field    string      `toml:"field" yaml:"field"`
	Header   string      `toml:"header" yaml:"header"`
	Width    string      `toml:"width" yaml:"width"`
	MinWidth float64     `toml:"minWidth" yaml:"minWidth"`
	MaxWidth float64     `toml:"maxWidth" yaml:"maxWidth"`
	Pinned   bool        `toml:"pinned" yaml:"pinned"`
	Hidden   bool        `toml:"hidden" yaml:"hidden"`
	PinOrder int         `toml:"pinOrder" yaml:"pinOrder"`
	RowStart int         `toml:"rowStart" yaml:"rowStart"`
	RowEnd   int         `toml:"rowEnd" yaml:"rowEnd"`
	ColStart int         `toml:"colStart" yaml:"colStart"`
	ColEnd   int         `toml:"colEnd" yaml:"colEnd"`
	Layout   bool        `toml:"layout" yaml:"layout"`
	Children []ColumnDef `toml:"children,omitempty" yaml:"children,omitempty"`
}

// Load reads and decodes the definition at path.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	f, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return f, nil
}

// Decode decodes a definition. Unknown keys are errors.
func Decode(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case TOML:
		if err := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields().Decode(&f); err != nil {
			return nil, err
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		// An empty document decodes to the zero definition.
		if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	return &f, nil
}

// Encode writes f in the given format.
func Encode(f *File, format Format) ([]byte, error) {
	switch format {
	case TOML:
		return toml.Marshal(f)
	case YAML:
		return yaml.Marshal(f)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// ============================================================================
// Validation and Building
// ============================================================================

// Validate reports every problem in the definition, joined.
func (f *File) Validate() error {
	var errs []error
	dimension := func(name, value string) {
		if _, err := dim.ParseStrict(value); err != nil {
			errs = append(errs, fmt.Errorf("grid.%s: %w", name, err))
		}
	}
	dimension("width", f.Grid.Width)
	dimension("height", f.Grid.Height)
	dimension("columnWidth", f.Grid.ColumnWidth)

	nonNegative := map[string]float64{
		"grid.rowHeight":        f.Grid.RowHeight,
		"grid.headerRowHeight":  f.Grid.HeaderRowHeight,
		"grid.scrollbarSize":    f.Grid.ScrollbarSize,
		"grid.rowSelectorWidth": f.Grid.RowSelectorWidth,
		"grid.dragHandleWidth":  f.Grid.DragHandleWidth,
		"grid.targetRecords":    float64(f.Grid.TargetRecords),
		"grid.perPage":          float64(f.Grid.PerPage),
		"viewport.width":        f.Viewport.Width,
		"viewport.height":       f.Viewport.Height,
		"data.rows":             float64(f.Data.Rows),
		"data.remoteTotal":      float64(f.Data.RemoteTotal),
	}
	for _, key := range slices.Sorted(maps.Keys(nonNegative)) {
		if nonNegative[key] < 0 {
			errs = append(errs, fmt.Errorf("%s: must not be negative, got %v", key, nonNegative[key]))
		}
	}

	var walk func(path string, defs []ColumnDef)
	walk = func(path string, defs []ColumnDef) {
		for i, def := range defs {
			at := fmt.Sprintf("%s[%d]", path, i)
			if _, err := dim.ParseStrict(def.Width); err != nil {
				errs = append(errs, fmt.Errorf("%s.width: %w", at, err))
			}
			if def.MinWidth < 0 || def.MaxWidth < 0 {
				errs = append(errs, fmt.Errorf("%s: width constraints must not be negative", at))
			}
			if def.Layout && len(def.Children) == 0 {
				errs = append(errs, fmt.Errorf("%s: layout %q has no cells", at, def.Field))
			}
			walk(at+".children", def.Children)
		}
	}
	walk("columns", f.Columns)

	if err := f.tree().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Build validates the definition and returns the grid configuration and
// column tree it declares.
func (f *File) Build() (vgrid.Config, *column.Tree, error) {
	if err := f.Validate(); err != nil {
		return vgrid.Config{}, nil, fmt.Errorf("invalid grid definition: %w", err)
	}

	cfg := vgrid.DefaultConfig()
	g := f.Grid
	if g.Name != "" {
		cfg.Name = g.Name
	}
	if g.Width != "" {
		cfg.Width = dim.Parse(g.Width)
	}
	cfg.Height = dim.Parse(g.Height)
	cfg.ColumnWidth = dim.Parse(g.ColumnWidth)
	setIfPositive(&cfg.RowHeight, g.RowHeight)
	setIfPositive(&cfg.HeaderRowHeight, g.HeaderRowHeight)
	setIfPositive(&cfg.ScrollbarSize, g.ScrollbarSize)
	setIfPositive(&cfg.TargetRecords, g.TargetRecords)
	setIfPositive(&cfg.Overscan, g.Overscan)
	if g.MaxExtraPasses != 0 {
		cfg.MaxExtraPasses = g.MaxExtraPasses
	}
	cfg.RowSelectorWidth = g.RowSelectorWidth
	cfg.DragHandleWidth = g.DragHandleWidth
	cfg.SnapToPixels = g.SnapToPixels
	cfg.QuickFilter = g.QuickFilter
	cfg.PerPage = g.PerPage
	cfg.Chrome = g.Chrome

	return cfg, f.tree(), nil
}

// NewViewport returns the fixed viewport declared by the definition.
func (f *File) NewViewport() *vgrid.FixedViewport {
	return &vgrid.FixedViewport{Width: f.Viewport.Width, Height: f.Viewport.Height}
}

// NewDataSource returns the row source declared by the definition.
func (f *File) NewDataSource() vgrid.DataSource {
	if f.Data.RemoteTotal > 0 {
		return &vgrid.RemoteData{Loaded: f.Data.Rows, Total: f.Data.RemoteTotal}
	}
	return &vgrid.StaticData{N: f.Data.Rows}
}

// tree builds a fresh column tree on every call.
func (f *File) tree() *column.Tree {
	return column.NewTree(columns(f.Columns)...)
}

func columns(defs []ColumnDef) []*column.Column {
	if len(defs) == 0 {
		return nil
	}
	out := make([]*column.Column, len(defs))
	for i, def := range defs {
		out[i] = &column.Column{
			Field:    def.Field,
			Header:   def.Header,
			Width:    dim.Parse(def.Width),
			MinWidth: def.MinWidth,
			MaxWidth: def.MaxWidth,
			Pinned:   def.Pinned,
			Hidden:   def.Hidden,
			PinOrder: def.PinOrder,
			RowStart: def.RowStart,
			RowEnd:   def.RowEnd,
			ColStart: def.ColStart,
			ColEnd:   def.ColEnd,
			Layout:   def.Layout,
			Children: columns(def.Children),
		}
	}
	return out
}

func setIfPositive[T int | float64](dst *T, v T) {
	if v > 0 {
		*dst = v
	}
}
