package validator

import (
	"testing"

	govalidator "github.com/go-playground/validator/v10"
)

func TestCustomTags(t *testing.T) {
	v := govalidator.New()
	for _, r := range customRules {
		if err := v.RegisterValidation(r.tag, r.fn); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		tag   string
		value string
		ok    bool
	}{
		{"exam_period", "NOV/DEC 2024", true},
		{"exam_period", "apr/may 2025", true},
		{"exam_period", "NOVEMBER 2024", false},
		{"exam_period", "NOV/DEC 24", false},
		{"academic_year", "2024-2025", true},
		{"academic_year", "2024-2026", false},
		{"academic_year", "2025-2024", false},
		{"academic_year", "24-25", false},
		{"academic_year", "2024", false},
		{"course_code", "CS3301", true},
		{"course_code", "MA101", true},
		{"course_code", "cs3301", false},
		{"course_code", "CS-3301", false},
		{"course_code", "C3301", false},
	}
	for _, tt := range tests {
		err := v.Var(tt.value, tt.tag)
		if (err == nil) != tt.ok {
			t.Errorf("%s(%q) valid=%v, want %v", tt.tag, tt.value, err == nil, tt.ok)
		}
	}
}
