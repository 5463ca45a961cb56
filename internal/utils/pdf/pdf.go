package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// RenderWorkoutPlan renders a generated session as a printable A4 plan.
func RenderWorkoutPlan(title, subtitle string, lines []string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(12)

	if subtitle != "" {
		pdf.SetFont("Arial", "", 12)
		pdf.Cell(0, 8, subtitle)
		pdf.Ln(10)
	}

	pdf.SetFont("Arial", "", 11)
	for _, line := range lines {
		pdf.MultiCell(0, 7, line, "", "L", false)
		pdf.Ln(1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf output: %w", err)
	}
	return buf.Bytes(), nil
}
