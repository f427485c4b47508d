package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseJobForm(t *testing.T) {
	tests := []struct {
		name string
		form JobForm
		want JobInput
	}{
		{"empty", JobForm{}, JobInput{}},
		{"plain", JobForm{Hours: "2", Minutes: "15", Weight: "100", Supplies: "250.5"}, JobInput{Hours: 2, Minutes: 15, WeightGrams: 100, SuppliesCost: 250.5}},
		{"integer prefix truncates", JobForm{Hours: "1.9", Minutes: "30min"}, JobInput{Hours: 1, Minutes: 30}},
		{"float prefix", JobForm{Weight: "12.5g", Supplies: ".5"}, JobInput{WeightGrams: 12.5, SuppliesCost: 0.5}},
		{"garbage is zero", JobForm{Hours: "abc", Weight: "g12"}, JobInput{}},
		{"surrounding spaces", JobForm{Weight: "  80 "}, JobInput{WeightGrams: 80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseJobForm(tt.form))
		})
	}
}

func TestJobFormReady(t *testing.T) {
	assert.False(t, JobForm{}.Ready())
	assert.False(t, JobForm{Minutes: "30", Supplies: "100"}.Ready())
	assert.True(t, JobForm{Weight: "10"}.Ready())
	assert.True(t, JobForm{Hours: "0"}.Ready())
}
