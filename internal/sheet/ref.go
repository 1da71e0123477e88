package sheet

import (
	"strings"

	"github.com/xuri/excelize/v2"
)

// ShiftColumn rewrites relative references to column from in formula so they
// point at column to. "$B5" stays, "B5" and "B$5" move. Longer column names
// that merely end in from ("AB5" for "B") are not touched.
func ShiftColumn(formula, from, to string) string {
	var b strings.Builder
	b.Grow(len(formula))
	inString := false
	for i := 0; i < len(formula); {
		c := formula[i]
		if c == '"' {
			inString = !inString
		}
		if !inString && strings.HasPrefix(formula[i:], from) && isReference(formula, i, len(from)) {
			b.WriteString(to)
			i += len(from)
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String()
}

func isReference(s string, at, n int) bool {
	if at > 0 {
		p := s[at-1]
		if p == '$' || isLetter(p) || p == '_' || (p >= '0' && p <= '9') {
			return false
		}
	}
	rest := s[at+n:]
	rest = strings.TrimPrefix(rest, "$")
	return rest != "" && rest[0] >= '0' && rest[0] <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

// moveSqref maps the single-column ranges of sqref that lie in column from
// onto column to. Ranges touching other columns are dropped. ok is false
// when nothing in sqref lies in from.
func moveSqref(sqref, from, to string) (string, bool) {
	var moved []string
	for _, r := range strings.Fields(sqref) {
		cells := strings.Split(r, ":")
		out := make([]string, 0, len(cells))
		for _, cell := range cells {
			col, row, err := excelize.SplitCellName(strings.ReplaceAll(cell, "$", ""))
			if err != nil || !strings.EqualFold(col, from) {
				out = nil
				break
			}
			name, err := excelize.JoinCellName(to, row)
			if err != nil {
				out = nil
				break
			}
			out = append(out, name)
		}
		if out != nil {
			moved = append(moved, strings.Join(out, ":"))
		}
	}
	if len(moved) == 0 {
		return "", false
	}
	return strings.Join(moved, " "), true
}
