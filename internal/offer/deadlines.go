package offer

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	deadlineHeader = "Item No. Reference Event Date or Deadline"
	deadlineEnd    = "4. PURCHASE PRICE AND TERMS"
	// deadlineSpan is how far the table reaches when its end marker is
	// missing.
	deadlineSpan = 3000

	// MaxDeadlineItem is the last item number of the deadline table.
	MaxDeadlineItem = 43
)

var (
	deadlineLine    = regexp.MustCompile(`^(\d+)\s+(?:§\s*[\w.]+|n/a)\s+`)
	deadlineKeyword = regexp.MustCompile(`\b(?:Deadline|Date|Time)\b`)
	leadingParens   = regexp.MustCompile(`^\([^)]+\)\s*`)
	trailingWeekday = regexp.MustCompile(`(?i)\s+(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday)$`)
)

// ParseDeadlines reads the Dates and Deadlines table from the document text
// and returns the value of each item, keyed by item number.
func ParseDeadlines(text string) map[int]string {
	items := make(map[int]string)

	start := strings.Index(text, deadlineHeader)
	if start < 0 {
		return items
	}
	table := text[start:]
	if end := strings.Index(table, deadlineEnd); end >= 0 {
		table = table[:end]
	} else {
		table = runes(table, deadlineSpan)
	}

	for _, line := range strings.Split(table, "\n") {
		item, value, ok := ParseDeadlineLine(strings.TrimSpace(line))
		if ok {
			items[item] = value
		}
	}
	return items
}

// ParseDeadlineLine parses one table row such as
// "5 § 4.5. Loan Application Deadline March 3, 2025 Monday". The value is the
// text after the last Deadline, Date or Time keyword, less any leading
// parenthetical, or the whole remainder when no keyword appears. A trailing
// weekday is dropped.
func ParseDeadlineLine(line string) (item int, value string, ok bool) {
	m := deadlineLine.FindStringSubmatchIndex(line)
	if m == nil {
		return 0, "", false
	}
	item, err := strconv.Atoi(line[m[2]:m[3]])
	if err != nil || item < 1 || item > MaxDeadlineItem {
		return 0, "", false
	}

	value = line[m[1]:]
	if kw := deadlineKeyword.FindAllStringIndex(value, -1); len(kw) > 0 {
		value = strings.TrimSpace(value[kw[len(kw)-1][1]:])
		value = leadingParens.ReplaceAllString(value, "")
	}
	value = strings.TrimSpace(trailingWeekday.ReplaceAllString(strings.TrimSpace(value), ""))

	if value == "" || strings.EqualFold(value, "n/a") {
		value = string(NotApplicable)
	}
	return item, value, true
}

// runes returns at most n runes of s.
func runes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
