package chart

// barColor is the single-table bar fill.
const barColor = "#4c78a8"

// category20 is the sample color scheme for aggregated mode. Colors are
// assigned to samples in legend order and wrap past twenty.
var category20 = []string{
	"#1f77b4", "#aec7e8", "#ff7f0e", "#ffbb78",
	"#2ca02c", "#98df8a", "#d62728", "#ff9896",
	"#9467bd", "#c5b0d5", "#8c564b", "#c49c94",
	"#e377c2", "#f7b6d2", "#7f7f7f", "#c7c7c7",
	"#bcbd22", "#dbdb8d", "#17becf", "#9edae5",
}

func sampleColor(i int) string {
	return category20[i%len(category20)]
}
