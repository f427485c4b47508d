package pricing

import (
	"regexp"
	"strconv"
	"strings"
)

// JobForm holds the raw text fields of the calculator form.
type JobForm struct {
	Hours    string `json:"hours"`
	Minutes  string `json:"minutes"`
	Weight   string `json:"weight"`
	Supplies string `json:"supplies"`
}

// Ready reports whether the form has enough input for a result to be shown.
func (f JobForm) Ready() bool {
	return strings.TrimSpace(f.Weight) != "" || strings.TrimSpace(f.Hours) != ""
}

// ParseJobForm coerces the form fields to numbers. Text that does not start
// with a number counts as zero.
func ParseJobForm(f JobForm) JobInput {
	return JobInput{
		Hours:        parseIntPrefix(f.Hours),
		Minutes:      parseIntPrefix(f.Minutes),
		WeightGrams:  parseFloatPrefix(f.Weight),
		SuppliesCost: parseFloatPrefix(f.Supplies),
	}
}

var (
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

func parseIntPrefix(raw string) float64 {
	m := intPrefix.FindString(strings.TrimSpace(raw))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseFloatPrefix(raw string) float64 {
	m := floatPrefix.FindString(strings.TrimSpace(raw))
	if m == "" {
		return 0
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return v
}
