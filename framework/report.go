package framework

import (
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Version is printed in the report header.
const Version = "0.1.0"

const (
	separatorWidth   = 63
	descriptionLabel = "Description: "
)

var separator = strings.Repeat("-", separatorWidth)

// reportEntry is everything that is printed for one completed test.
type reportEntry struct {
	name        string
	description string
	operands    bool
	expected    interface{}
	actual      interface{}
	status      Status
	elapsed     time.Duration
	errors      []error
}

// reportFormatter renders report text. It holds no run state.
type reportFormatter struct {
	indent        string
	describeWidth int
	passed        *color.Color
	failed        *color.Color
	other         *color.Color
}

func newReportFormatter(config Config) *reportFormatter {
	f := &reportFormatter{
		indent:        config.indent(),
		describeWidth: config.describeWidth(),
		passed:        color.New(color.FgGreen),
		failed:        color.New(color.FgRed),
		other:         color.New(color.FgYellow),
	}
	for _, c := range []*color.Color{f.passed, f.failed, f.other} {
		if config.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return f
}

func (f *reportFormatter) header(title, sessionID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n%s\n", separator)
	fmt.Fprintf(&b, " %s version: %s\n", title, Version)
	fmt.Fprintf(&b, " Session: %s\n", sessionID)
	fmt.Fprintf(&b, "%s\n", separator)
	return b.String()
}

func (f *reportFormatter) entry(e reportEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<%s>\n", e.name)
	if e.description != "" {
		pad := f.indent + strings.Repeat(" ", len(descriptionLabel))
		for i, line := range wrapText(e.description, f.describeWidth) {
			if i == 0 {
				fmt.Fprintf(&b, "%s%s%s\n", f.indent, descriptionLabel, line)
			} else {
				fmt.Fprintf(&b, "%s%s\n", pad, line)
			}
		}
	}
	if e.operands {
		fmt.Fprintf(&b, "%sExpected: %s\n", f.indent, formatValue(e.expected))
		fmt.Fprintf(&b, "%sActual:   %s\n", f.indent, formatValue(e.actual))
	}
	for _, err := range e.errors {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(&b, "%sError:    %s\n", f.indent, line)
		}
	}
	fmt.Fprintf(&b, "%sStatus:   %s\n", f.indent, f.status(e.status))
	fmt.Fprintf(&b, "%sTime:     %s\n\n", f.indent, formatDuration(e.elapsed))
	return b.String()
}

func (f *reportFormatter) summary(s Summary, stopped bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", separator)
	fmt.Fprintf(&b, " Total: %d tests, %s passed, %s failed, time: %s\n",
		s.Total,
		f.passed.Sprint(s.Passed),
		f.failed.Sprint(s.Failed),
		formatDuration(s.Time),
	)
	if len(s.Incomplete) > 0 {
		fmt.Fprintf(&b, " %s: %s\n", f.other.Sprint("Incomplete"), strings.Join(s.Incomplete, ", "))
	}
	if stopped {
		fmt.Fprintf(&b, " %s\n", f.other.Sprint("Stopped"))
	}
	fmt.Fprintf(&b, "%s\n\n", separator)
	if s.Failed == 0 && len(s.Incomplete) == 0 && !stopped {
		b.WriteString("Ok!\n")
	} else {
		b.WriteString("Failed!\n")
	}
	return b.String()
}

func (f *reportFormatter) status(s Status) string {
	switch s {
	case StatusPassed:
		return f.passed.Sprint(s)
	case StatusFailed:
		return f.failed.Sprint(s)
	default:
		return f.other.Sprint(s)
	}
}

// wrapText splits text into lines no wider than width display columns, breaking at spaces
// where possible. Words wider than a whole line are split.
func wrapText(text string, width int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var line strings.Builder
		lineWidth := 0
		for _, word := range strings.Fields(paragraph) {
			wordWidth := runewidth.StringWidth(word)
			if lineWidth > 0 && lineWidth+1+wordWidth > width {
				lines = append(lines, line.String())
				line.Reset()
				lineWidth = 0
			}
			for wordWidth > width {
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					break
				}
				lines = append(lines, head)
				word = word[len(head):]
				wordWidth = runewidth.StringWidth(word)
			}
			if lineWidth > 0 {
				line.WriteByte(' ')
				lineWidth++
			}
			line.WriteString(word)
			lineWidth += wordWidth
		}
		if lineWidth > 0 || len(lines) == 0 {
			lines = append(lines, line.String())
		}
	}
	return lines
}

func formatValue(v interface{}) string {
	switch x := v.(type) {
	case string:
		return fmt.Sprintf("%q", x)
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%v", x)
	}
}

func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return d.String()
	}
	return d.Round(time.Millisecond).String()
}
