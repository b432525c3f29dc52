// Package latex writes tabular environments for inclusion in a LaTeX document.
package latex

import (
	"fmt"
	"io"
	"strings"
)

// Row terminators used by the paper's tables.
const (
	RowEnd      = ` \\` + "\n"
	RowEndSpace = ` \\ ` + "\n"
)

// Tabular writes a tabular environment line by line. The first write error
// is kept and every later call becomes a no-op, so callers check Err once.
type Tabular struct {
	w      io.Writer
	rowEnd string
	err    error
}

// NewTabular returns a Tabular writing to w. Rows end with RowEnd.
func NewTabular(w io.Writer) *Tabular {
	return &Tabular{w: w, rowEnd: RowEnd}
}

// SetRowEnd changes the terminator appended by Row.
func (t *Tabular) SetRowEnd(end string) {
	t.rowEnd = end
}

// Begin opens the environment with the given column specification.
func (t *Tabular) Begin(spec string) {
	t.Line(`\begin{tabular}{` + spec + `}`)
}

// End closes the environment.
func (t *Tabular) End() {
	t.Line(`\end{tabular}`)
}

// HLine writes a horizontal rule.
func (t *Tabular) HLine() {
	t.Line(`\hline`)
}

// Row writes cells separated by " & " followed by the row terminator.
func (t *Tabular) Row(cells ...string) {
	t.write(strings.Join(cells, " & ") + t.rowEnd)
}

// Line writes s verbatim followed by a newline.
func (t *Tabular) Line(s string) {
	t.write(s + "\n")
}

// Err returns the first write error, if any.
func (t *Tabular) Err() error {
	return t.err
}

func (t *Tabular) write(s string) {
	if t.err != nil {
		return
	}
	if _, err := io.WriteString(t.w, s); err != nil {
		t.err = fmt.Errorf("failed to write table: %w", err)
	}
}

// Math wraps s in inline math delimiters.
func Math(s string) string {
	return "$" + s + "$"
}

// MultiColumn returns a \multicolumn cell spanning n columns.
func MultiColumn(n int, spec, text string) string {
	return fmt.Sprintf(`\multicolumn{%d}{%s}{%s}`, n, spec, text)
}

// Repeat returns a column specification of n copies of spec.
func Repeat(spec string, n int) string {
	return strings.Repeat(spec, n)
}
