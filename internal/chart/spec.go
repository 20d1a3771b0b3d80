// Package chart builds a declarative description of the containment bar
// chart and rasterizes it. The description (Spec) is plain serializable
// data: what to draw, separated from how it gets rasterized, so the
// interesting logic is testable without a rendering engine.
package chart

// Spec is the complete chart description: bar marks, an optional text-label
// layer, axis encoding and ordering. Field order inside Bars/Labels is the
// display order.
type Spec struct {
	Title   string `json:"title"`
	Width   int    `json:"width"`    // plot body width in pixels
	RowStep int    `json:"row_step"` // vertical pixels per category
	BarSize int    `json:"bar_size"` // thickness of one bar mark

	X Axis `json:"x"`

	// Categories is the categorical axis in display order, already
	// naturally sorted and deduplicated.
	Categories []string `json:"categories"`

	// Samples is present only in aggregated mode. Its order drives both
	// the color legend and the per-category sub-bar offsets.
	Samples []Sample `json:"samples,omitempty"`

	Bars []Bar `json:"bars"`

	// Labels is the depth-overlay text layer, anchored at the score-axis
	// origin. Empty when the depth column is absent from the table.
	Labels []Label `json:"labels,omitempty"`
}

// Axis is the quantitative score axis. The domain is fixed regardless of
// the data range.
type Axis struct {
	Title string  `json:"title"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Bar is one horizontal bar mark. Sample is empty in single-table mode.
type Bar struct {
	Category string  `json:"category"`
	Sample   string  `json:"sample,omitempty"`
	Value    float64 `json:"value"`
}

// Label is one overlay text mark, sharing the categorical position (and
// sub-bar offset) of the bar it annotates.
type Label struct {
	Category string `json:"category"`
	Sample   string `json:"sample,omitempty"`
	Text     string `json:"text"`
}

// Sample assigns a legend color to one sample label.
type Sample struct {
	Label string `json:"label"`
	Color string `json:"color"` // #rrggbb
}
