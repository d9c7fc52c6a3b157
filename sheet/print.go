package sheet

import (
	"fmt"
	"io"
	"strconv"

	"github.com/serjcom/go-spreadsheet/cellerr"
	"github.com/serjcom/go-spreadsheet/formula"
	"github.com/serjcom/go-spreadsheet/position"
)

// PrintValues writes every cell's value over the printable bounding box
// to out: tab-separated within a row, newline-terminated per row, an
// absent cell emitting an empty column (§2's print_values). A position
// with no Cell object at all is skipped before ever reaching GetValue —
// it is distinct from an actually-present Empty cell, which reads as
// FormulaError(Value) on a direct get_value (§4.2) — following
// original_source/sheet.cpp's PrintValues, which only calls ->GetValue()
// once GetCell(pos) has returned a non-null cell.
func (s *Sheet) PrintValues(out io.Writer) error {
	return s.print(out, func(pos position.Position) (string, error) {
		if _, ok := s.cells[pos]; !ok {
			return "", nil
		}
		v, err := s.GetValue(pos)
		if err != nil {
			return "", err
		}
		return formatValue(v), nil
	})
}

// PrintTexts writes every cell's canonical text the same way PrintValues
// writes values.
func (s *Sheet) PrintTexts(out io.Writer) error {
	return s.print(out, func(pos position.Position) (string, error) {
		return s.GetText(pos)
	})
}

func (s *Sheet) print(out io.Writer, cellText func(position.Position) (string, error)) error {
	rows, cols := s.PrintableSize()
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if col > 0 {
				if _, err := io.WriteString(out, "\t"); err != nil {
					return err
				}
			}
			text, err := cellText(position.Position{Row: row, Col: col})
			if err != nil {
				return err
			}
			if _, err := io.WriteString(out, text); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(out, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// formatValue renders a looked-up value the way print_values requires:
// numbers in their natural format, strings verbatim, errors as their
// mnemonic (§2).
func formatValue(v formula.Value) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case string:
		return t
	case *cellerr.FormulaError:
		return t.Mnemonic()
	default:
		return fmt.Sprintf("%v", t)
	}
}
