package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/cubism-go/cubism-core-go/pkg/cubism"
)

type report struct {
	WrapperVersion string            `json:"wrapper_version"`
	CoreVersion    string            `json:"core_version"`
	MocVersion     string            `json:"moc_version"`
	MocBytes       int               `json:"moc_bytes"`
	Updates        int               `json:"updates"`
	Canvas         cubism.CanvasInfo `json:"canvas"`
	Parameters     []parameterRow    `json:"parameters"`
	Parts          []partRow         `json:"parts"`
	Drawables      []drawableRow     `json:"drawables"`
}

type parameterRow struct {
	ID      string  `json:"id"`
	Min     float32 `json:"min"`
	Max     float32 `json:"max"`
	Default float32 `json:"default"`
	Value   float32 `json:"value"`
}

type partRow struct {
	ID      string  `json:"id"`
	Opacity float32 `json:"opacity"`
	Parent  int32   `json:"parent"`
}

type drawableRow struct {
	ID            string  `json:"id"`
	ConstantFlags string  `json:"constant_flags"`
	DynamicFlags  string  `json:"dynamic_flags"`
	Texture       int32   `json:"texture"`
	DrawOrder     int32   `json:"draw_order"`
	RenderOrder   int32   `json:"render_order"`
	Opacity       float32 `json:"opacity"`
	Vertices      int32   `json:"vertices"`
	Indices       int32   `json:"indices"`
}

func copyOf[T any](get func() (cubism.View[T], error)) ([]T, error) {
	v, err := get()
	if err != nil {
		return nil, err
	}
	return v.Copy()
}

func buildReport(lib *cubism.Library, moc *cubism.Moc, model *cubism.Model, updates int) (report, error) {
	r := report{
		WrapperVersion: cubism.WrapperVersion(),
		CoreVersion:    lib.CoreVersion().String(),
		MocBytes:       moc.Size(),
		Updates:        updates,
	}

	version, err := moc.Version()
	if err != nil {
		return r, err
	}
	r.MocVersion = version.String()

	if r.Canvas, err = model.ReadCanvasInfo(); err != nil {
		return r, err
	}
	if r.Parameters, err = parameterRows(model); err != nil {
		return r, fmt.Errorf("parameters: %w", err)
	}
	if r.Parts, err = partRows(model); err != nil {
		return r, fmt.Errorf("parts: %w", err)
	}
	if r.Drawables, err = drawableRows(model); err != nil {
		return r, fmt.Errorf("drawables: %w", err)
	}
	return r, nil
}

func parameterRows(model *cubism.Model) ([]parameterRow, error) {
	ids, err := model.ParameterIDs()
	if err != nil {
		return nil, err
	}
	mins, err := copyOf(model.ParameterMinimumValues)
	if err != nil {
		return nil, err
	}
	maxs, err := copyOf(model.ParameterMaximumValues)
	if err != nil {
		return nil, err
	}
	defaults, err := copyOf(model.ParameterDefaultValues)
	if err != nil {
		return nil, err
	}
	values, err := copyOf(model.ParameterValues)
	if err != nil {
		return nil, err
	}
	rows := make([]parameterRow, len(ids))
	for i, id := range ids {
		rows[i] = parameterRow{ID: id, Min: mins[i], Max: maxs[i], Default: defaults[i], Value: values[i]}
	}
	return rows, nil
}

func partRows(model *cubism.Model) ([]partRow, error) {
	ids, err := model.PartIDs()
	if err != nil {
		return nil, err
	}
	opacities, err := copyOf(model.PartOpacities)
	if err != nil {
		return nil, err
	}
	parents, err := copyOf(model.PartParentPartIndices)
	if err != nil {
		return nil, err
	}
	rows := make([]partRow, len(ids))
	for i, id := range ids {
		rows[i] = partRow{ID: id, Opacity: opacities[i], Parent: parents[i]}
	}
	return rows, nil
}

func drawableRows(model *cubism.Model) ([]drawableRow, error) {
	ids, err := model.DrawableIDs()
	if err != nil {
		return nil, err
	}
	constant, err := model.DrawableConstantFlags()
	if err != nil {
		return nil, err
	}
	dynamic, err := model.DrawableDynamicFlags()
	if err != nil {
		return nil, err
	}
	textures, err := copyOf(model.DrawableTextureIndices)
	if err != nil {
		return nil, err
	}
	drawOrders, err := copyOf(model.DrawableDrawOrders)
	if err != nil {
		return nil, err
	}
	renderOrders, err := copyOf(model.DrawableRenderOrders)
	if err != nil {
		return nil, err
	}
	opacities, err := copyOf(model.DrawableOpacities)
	if err != nil {
		return nil, err
	}
	vertexCounts, err := copyOf(model.DrawableVertexCounts)
	if err != nil {
		return nil, err
	}
	indexCounts, err := copyOf(model.DrawableIndexCounts)
	if err != nil {
		return nil, err
	}
	rows := make([]drawableRow, len(ids))
	for i, id := range ids {
		rows[i] = drawableRow{
			ID:            id,
			ConstantFlags: constant[i].String(),
			DynamicFlags:  dynamic[i].String(),
			Texture:       textures[i],
			DrawOrder:     drawOrders[i],
			RenderOrder:   renderOrders[i],
			Opacity:       opacities[i],
			Vertices:      vertexCounts[i],
			Indices:       indexCounts[i],
		}
	}
	return rows, nil
}

func writeReport(w io.Writer, r report, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	return writeText(w, r)
}

func writeText(w io.Writer, r report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "wrapper\t%s\n", r.WrapperVersion)
	fmt.Fprintf(tw, "core\t%s\n", r.CoreVersion)
	fmt.Fprintf(tw, "moc\t%s (%d bytes)\n", r.MocVersion, r.MocBytes)
	fmt.Fprintf(tw, "updates\t%d\n", r.Updates)
	fmt.Fprintf(tw, "canvas\t%gx%g origin (%g, %g) %g px/unit\n",
		r.Canvas.Size.X, r.Canvas.Size.Y, r.Canvas.Origin.X, r.Canvas.Origin.Y, r.Canvas.PixelsPerUnit)

	fmt.Fprintf(tw, "\nPARAMETER\tMIN\tMAX\tDEFAULT\tVALUE\n")
	for _, p := range r.Parameters {
		fmt.Fprintf(tw, "%s\t%g\t%g\t%g\t%g\n", p.ID, p.Min, p.Max, p.Default, p.Value)
	}

	fmt.Fprintf(tw, "\nPART\tOPACITY\tPARENT\n")
	for _, p := range r.Parts {
		fmt.Fprintf(tw, "%s\t%g\t%d\n", p.ID, p.Opacity, p.Parent)
	}

	fmt.Fprintf(tw, "\nDRAWABLE\tCONSTANT\tDYNAMIC\tTEXTURE\tDRAW\tRENDER\tOPACITY\tVERTICES\tINDICES\n")
	for _, d := range r.Drawables {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%d\t%g\t%d\t%d\n",
			d.ID, d.ConstantFlags, d.DynamicFlags, d.Texture, d.DrawOrder, d.RenderOrder,
			d.Opacity, d.Vertices, d.Indices)
	}

	return tw.Flush()
}
