package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	matchedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	undefinedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	ambiguousStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	faintStyle     = lipgloss.NewStyle().Faint(true)
	boldStyle      = lipgloss.NewStyle().Bold(true)
)

// Step statuses as stored in the steps table.
const (
	Matched   = "matched"
	Undefined = "undefined"
	Ambiguous = "ambiguous"
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case Matched:
		return matchedStyle
	case Undefined:
		return undefinedStyle
	case Ambiguous:
		return ambiguousStyle
	}
	return faintStyle
}

// marker pads the three-letter status marker before styling so columns line up.
func marker(status string) string {
	var m string
	switch status {
	case Matched:
		m = "ok "
	case Undefined:
		m = "und"
	case Ambiguous:
		m = "amb"
	default:
		m = "   "
	}
	return statusStyle(status).Render(m)
}

func StepLine(w io.Writer, status, location, text string) {
	fmt.Fprintln(w, marker(status)+"  "+faintStyle.Render(location)+"  "+text)
}

func NewLine(w io.Writer, path string) {
	fmt.Fprintln(w, matchedStyle.Render("new")+"  "+path)
}

func TrkLine(w io.Writer, path string) {
	fmt.Fprintln(w, faintStyle.Render("trk")+"  "+path)
}

func SummaryLine(w io.Writer, files, steps int) {
	fmt.Fprintf(w, "synced %d files, %d steps\n", files, steps)
}

func ListRow(w io.Writer, id int64, expression, kind string, uses int, idWidth, exprWidth int) {
	tag := fmt.Sprintf("#%d", id)
	fmt.Fprintf(w, "%-*s  %-*s  %s  %s\n",
		idWidth, tag,
		exprWidth, expression,
		faintStyle.Render(fmt.Sprintf("%-8s", kind)),
		usesLabel(uses))
}

func usesLabel(uses int) string {
	if uses == 0 {
		return undefinedStyle.Render("unused")
	}
	if uses == 1 {
		return "1 step"
	}
	return fmt.Sprintf("%d steps", uses)
}

func ShowHeader(w io.Writer, id int64, expression, kind string) {
	fmt.Fprintln(w, boldStyle.Render(fmt.Sprintf("#%d", id))+"  "+expression)
	fmt.Fprintln(w, faintStyle.Render(kind))
}

func ShowStep(w io.Writer, location, keyword, text string) {
	fmt.Fprintln(w, faintStyle.Render(location)+"  "+keyword+" "+text)
}

// ShowArgument prints one argument value, or its error when the transformer
// failed.
func ShowArgument(w io.Writer, typeName, raw string, value any, err error) {
	label := "{" + typeName + "}"
	if err != nil {
		fmt.Fprintf(w, "    %s %q  %s\n", label, raw, ambiguousStyle.Render("error: "+firstLine(err.Error())))
		return
	}
	fmt.Fprintf(w, "    %s %q  %s\n", label, raw, matchedStyle.Render(fmt.Sprintf("%v (%T)", value, value)))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func DefineConfirm(w io.Writer, id int64, expression string, created bool) {
	if created {
		fmt.Fprintf(w, "#%d %s\n", id, matchedStyle.Render("defined")+"  "+expression)
		return
	}
	fmt.Fprintf(w, "#%d %s\n", id, faintStyle.Render("exists")+"  "+expression)
}

func StatusCount(w io.Writer, status string, count int) {
	fmt.Fprintf(w, "  %s: %d\n", statusStyle(status).Render(status), count)
}

func TypeRow(w io.Writer, name, regexps, target string, nameWidth, regexpWidth int) {
	if name == "" {
		name = "{}"
	} else {
		name = "{" + name + "}"
	}
	fmt.Fprintf(w, "%-*s  %-*s  %s\n", nameWidth+2, name, regexpWidth, regexps, faintStyle.Render(target))
}
