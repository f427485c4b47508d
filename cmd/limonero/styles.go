package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A3D65C")).MarginBottom(1)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	incomeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	totalStyle   = lipgloss.NewStyle().Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(0, 1)
)

// Amounts are shown the way the shop reads them: es-AR grouping and
// decimal comma.
var printer = message.NewPrinter(language.MustParse("es-AR"))

func money(v float64) string {
	return "$" + printer.Sprintf("%.2f", v)
}

func grams(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "g"
}

func title(w io.Writer, text string) {
	fmt.Fprintln(w, titleStyle.Render("🍋 "+text))
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
