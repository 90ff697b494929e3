package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/gookit/color"
	"golang.org/x/term"

	"github.com/lawnchairsociety/backrooms/internal/export"
)

const defaultWidth = 80

func main() {
	inputFile := flag.String("input", "layout.yaml", "Path to a generated layout file")
	level := flag.Int("level", levelAll, "Floor level in metres to display (default: all levels)")
	outputFile := flag.String("output", "", "Output file (empty for stdout)")
	showLegend := flag.Bool("legend", true, "Show legend")
	scale := flag.Float64("scale", 1, "Metres per map cell")
	flag.Parse()

	doc, err := export.Read(*inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	units, err := doc.ToUnits()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding layout: %v\n", err)
		os.Exit(1)
	}

	toTerminal := *outputFile == ""
	width := 0
	if toTerminal {
		width = terminalWidth()
	} else {
		color.Disable()
	}

	m := &mapper{units: units, scale: *scale, maxWidth: width}

	var output strings.Builder
	output.WriteString(fmt.Sprintf("Backrooms Map (Seed: %d, Units: %d)\n", doc.Seed, len(units)))
	output.WriteString(fmt.Sprintf("Generated: %s\n", doc.GeneratedAt.Format("2006-01-02 15:04:05")))
	output.WriteString(strings.Repeat("=", 60) + "\n\n")

	m.writeConnectivity(&output)
	for _, lvl := range m.levels() {
		if *level != levelAll && lvl != *level {
			continue
		}
		m.renderLevel(&output, lvl)
		output.WriteString("\n")
	}

	if *showLegend {
		output.WriteString(legend())
	}

	if !toTerminal {
		if err := os.WriteFile(*outputFile, []byte(output.String()), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Map written to %s\n", *outputFile)
		return
	}
	fmt.Print(output.String())
}

// terminalWidth returns the width of stdout, or defaultWidth when it is not
// a terminal.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

func legend() string {
	return `
Legend:
  # Room
  . Hallway
  ^ Stairs climbing from this level
  v Stairs descending from this level
  + Connection between units

  North is at the top of each level.
`
}
