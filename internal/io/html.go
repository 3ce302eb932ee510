package io

import (
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/piwi3910/gdrrcut/internal/apperr"
)

// nodeColor mirrors html_export.rs::generate_node's colour-by-type
// choice.
func nodeColor(t jsonCPNodeType) string {
	switch t {
	case nodeItem:
		return "#BFBFBF"
	case nodeLeftover:
		return "#A9D18E"
	default:
		return "#FFFFFF"
	}
}

// WriteHTML renders s as a standalone HTML page: one SVG of nested
// rectangles per cutting pattern, preceded by the run's statistics table.
// Grounded on original_source/src/io/html_export.rs, ported from its
// horrorshow/svg builder calls to plain string building in the style of
// the teacher's own PDF/label exporters (fixed layout constants, no
// templating engine).
func WriteHTML(path string, s Solution) error {
	js := toJSONSolution(s)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html style=\"font-family:Arial\">\n<head><title>")
	fmt.Fprintf(&b, "Solution %s", html.EscapeString(js.Name))
	b.WriteString("</title></head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>Solution %s</h1>\n", html.EscapeString(js.Name))

	b.WriteString("<h2>Statistics</h2>\n<table>\n")
	writeStatRow(&b, "Usage", fmt.Sprintf("%.3f%%", js.Statistics.UsagePct))
	writeStatRow(&b, "Part area included", fmt.Sprintf("%.3f%%", js.Statistics.PartAreaIncludedPct))
	writeStatRow(&b, "# Objects used", fmt.Sprintf("%d", js.Statistics.NObjectsUsed))
	writeStatRow(&b, "Material cost", fmt.Sprintf("%d", js.Statistics.MaterialCost))
	writeStatRow(&b, "Run time", fmt.Sprintf("%.3fs", float64(js.Statistics.RunTimeMs)/1000.0))
	writeStatRow(&b, "Config path", html.EscapeString(js.Statistics.ConfigPath))
	b.WriteString("</table>\n")

	b.WriteString("<h2>Cutting Patterns</h2>\n")
	for i, cp := range js.CuttingPatterns {
		fmt.Fprintf(&b, "<h3>Pattern %d: Object %d [%dx%d], %.3f%% usage</h3>\n",
			i, cp.Object, cp.Root.Length, cp.Root.Height, cp.Usage*100.0)
		b.WriteString("<div style=\"width:1000px;\">\n")
		writeSVG(&b, cp.Root)
		b.WriteString("</div>\n")
	}

	b.WriteString("</body>\n</html>\n")

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return apperr.Wrap(apperr.CodeIO, "writing html file "+path, err)
	}
	return nil
}

func writeStatRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "<tr><th style=\"text-align:left\">%s</th><td>%s</td></tr>\n", html.EscapeString(label), value)
}

func writeSVG(b *strings.Builder, root jsonCPNode) {
	maxDim := root.Height
	if root.Length > maxDim {
		maxDim = root.Length
	}
	strokeWidth := 0.002 * float64(maxDim)
	fmt.Fprintf(b, "<svg width=\"100%%\" height=\"100%%\" viewBox=\"%f %f %f %f\">\n",
		-strokeWidth, -strokeWidth,
		float64(root.Length)+strokeWidth*2, float64(root.Height)+strokeWidth*2)
	writeSVGNode(b, root, 0, 0, strokeWidth)
	b.WriteString("</svg>\n")
}

// writeSVGNode mirrors html_export.rs::generate_node: a childless node
// becomes one <rect> (plus a <text> label for Item nodes, rotated when
// the item is taller than it is wide); a node with children recurses,
// advancing the reference point along its orientation.
func writeSVGNode(b *strings.Builder, n jsonCPNode, x, y, strokeWidth float64) {
	if len(n.Children) == 0 {
		w, h := float64(n.Length), float64(n.Height)
		fmt.Fprintf(b, "<rect x=\"%f\" y=\"%f\" width=\"%f\" height=\"%f\" fill=\"%s\" stroke=\"black\" stroke-width=\"%f\"/>\n",
			x, y, w, h, nodeColor(n.Type), strokeWidth)

		if n.Type == nodeItem && n.Item != nil {
			cx, cy := x+w*0.5, y+h*0.5
			transform := ""
			if n.Height > n.Length {
				transform = fmt.Sprintf(" transform=\"rotate(-90 %f %f)\"", cx, cy)
			}
			maxDim, minDim := n.Height, n.Length
			if n.Length > n.Height {
				maxDim, minDim = n.Length, n.Height
			}
			fontSize := 0.005 * float64(maxDim)
			if alt := 0.02 * float64(minDim); alt < fontSize {
				fontSize = alt
			}
			fmt.Fprintf(b, "<text x=\"%f\" y=\"%f\" text-anchor=\"middle\" dominant-baseline=\"middle\" fill=\"black\" font-size=\"%fem\"%s>%d: [%dx%d]</text>\n",
				cx, cy, fontSize, transform, *n.Item, n.Length, n.Height)
		}
		return
	}

	cursorX, cursorY := x, y
	for _, child := range n.Children {
		writeSVGNode(b, child, cursorX, cursorY, strokeWidth)
		switch n.Orientation {
		case "H":
			cursorY += float64(child.Height)
		case "V":
			cursorX += float64(child.Length)
		}
	}
}
