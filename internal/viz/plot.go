// Package viz renders trajectories in the terminal: static asciigraph
// plots and a live view of a running integration.
package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Plot renders one state component over time as a terminal graph.
func Plot(ts []float64, us [][]float64, component int, caption string) (string, error) {
	if len(us) == 0 {
		return "", fmt.Errorf("viz: empty trajectory")
	}
	if component < 0 || component >= len(us[0]) {
		return "", fmt.Errorf("viz: component %d out of range (dim %d)", component, len(us[0]))
	}

	series := make([]float64, len(us))
	for i, u := range us {
		series[i] = u[component]
	}

	graph := asciigraph.Plot(series,
		asciigraph.Height(15),
		asciigraph.Width(70),
		asciigraph.Caption(caption),
	)
	return graph, nil
}

// PlotAll renders every state component, one graph per component.
func PlotAll(ts []float64, us [][]float64, caption string) (string, error) {
	if len(us) == 0 {
		return "", fmt.Errorf("viz: empty trajectory")
	}

	var b strings.Builder
	for c := range us[0] {
		graph, err := Plot(ts, us, c, fmt.Sprintf("%s u[%d]", caption, c))
		if err != nil {
			return "", err
		}
		b.WriteString(graph)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}
