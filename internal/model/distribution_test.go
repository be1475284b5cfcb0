package model

import (
	"reflect"
	"strings"
	"testing"
)

func withoutQuestion(qs []Question, drop func(q Question) bool) []Question {
	var out []Question
	for _, q := range qs {
		if !drop(q) {
			out = append(out, q)
		}
	}
	return out
}

func hasViolation(violations []string, want string) bool {
	for _, v := range violations {
		if strings.Contains(v, want) {
			return true
		}
	}
	return false
}

func TestComputeDistribution_ValidPaper(t *testing.T) {
	d := ComputeDistribution(SampleQuestions())

	if !d.Valid() {
		t.Fatalf("expected no violations, got %v", d.Violations)
	}
	if d.TotalMarks != 100 {
		t.Errorf("TotalMarks = %d, want 100", d.TotalMarks)
	}
	if d.OrPairs != 5 {
		t.Errorf("OrPairs = %d, want 5", d.OrPairs)
	}

	wantParts := []PartSummary{
		{Part: PartA, Questions: 10, Counted: 10, Marks: 20},
		{Part: PartB, Questions: 10, Counted: 5, Marks: 65},
		{Part: PartC, Questions: 1, Counted: 1, Marks: 15},
	}
	if !reflect.DeepEqual(d.Parts, wantParts) {
		t.Errorf("Parts = %+v, want %+v", d.Parts, wantParts)
	}

	// Only option (a) of each pair counts, so L4 receives nothing.
	wantBloom := map[BloomLevel]int{L1: 10, L2: 10, L3: 65, L4: 0, L5: 15, L6: 0}
	if !reflect.DeepEqual(d.ByBloom, wantBloom) {
		t.Errorf("ByBloom = %v, want %v", d.ByBloom, wantBloom)
	}
	if got := d.ByCO[CO5]; got != 2+2+13+15 {
		t.Errorf("ByCO[CO5] = %d, want 32", got)
	}
	if got := d.Matrix[CO5][L5]; got != 15 {
		t.Errorf("Matrix[CO5][L5] = %d, want 15", got)
	}

	for band, want := range map[BloomBand]float64{BandLower: 20, BandMiddle: 65, BandHigher: 15} {
		b := d.Band(band)
		if b.Percent != want || !b.WithinPolicy {
			t.Errorf("band %s = %.2f%% (within=%v), want %.2f%% within policy", band, b.Percent, b.WithinPolicy, want)
		}
	}
}

func TestComputeDistribution_Violations(t *testing.T) {
	tests := []struct {
		name   string
		mutate func([]Question) []Question
		want   []string
	}{
		{
			name: "part A short and part C under-marked",
			mutate: func(qs []Question) []Question {
				qs = withoutQuestion(qs, func(q Question) bool { return q.Part == PartA && q.Number == 10 })
				for i := range qs {
					if qs[i].Part == PartC {
						qs[i].Marks = 10
					}
				}
				return qs
			},
			want: []string{
				"Part A must have 10 questions, found 9",
				"Part C question 16 carries 10 marks, expected 15",
				"total marks must be 100, found 93",
			},
		},
		{
			name: "missing part C",
			mutate: func(qs []Question) []Question {
				return withoutQuestion(qs, func(q Question) bool { return q.Part == PartC })
			},
			want: []string{"Part C must have 1 question, found 0", "total marks must be 100, found 85"},
		},
		{
			name: "incomplete OR pair",
			mutate: func(qs []Question) []Question {
				return withoutQuestion(qs, func(q Question) bool {
					return q.Part == PartB && *q.OrPair == 13 && q.Option == "b"
				})
			},
			want: []string{
				"Part B must have 10 questions, found 9",
				"Part B must have 5 complete OR pairs, found 4",
				"Part B OR pair 13 is missing option (b)",
			},
		},
		{
			name: "part B question without a pair",
			mutate: func(qs []Question) []Question {
				for i := range qs {
					if qs[i].Part == PartB && *qs[i].OrPair == 14 && qs[i].Option == "b" {
						qs[i].OrPair = nil
					}
				}
				return qs
			},
			want: []string{"Part B question 14 is not assigned to an OR pair", "Part B OR pair 14 is missing option (b)"},
		},
		{
			name: "subdivision marks do not add up",
			mutate: func(qs []Question) []Question {
				for i := range qs {
					if qs[i].Part == PartB && *qs[i].OrPair == 12 && qs[i].Option == "a" {
						qs[i].Subdivisions[1].Marks = 5
					}
				}
				return qs
			},
			want: []string{"Part B question 12 (a) subdivision marks total 12, expected 13"},
		},
		{
			name: "too many subdivisions",
			mutate: func(qs []Question) []Question {
				for i := range qs {
					if qs[i].Part == PartB && *qs[i].OrPair == 11 && qs[i].Option == "b" {
						qs[i].Subdivisions = []Subdivision{{"i", 5}, {"ii", 4}, {"iii", 4}}
					}
				}
				return qs
			},
			want: []string{"Part B question 11 (b) has 3 subdivisions, at most 2 allowed"},
		},
		{
			name: "subdivisions outside part B",
			mutate: func(qs []Question) []Question {
				qs[0].Subdivisions = []Subdivision{{"i", 1}, {"ii", 1}}
				return qs
			},
			want: []string{"Part A question 1 cannot have subdivisions"},
		},
		{
			name: "missing tags",
			mutate: func(qs []Question) []Question {
				qs[2].CourseOutcome = ""
				qs[3].BloomLevel = "L9"
				return qs
			},
			want: []string{
				"Part A question 3 is missing a course outcome",
				`Part A question 4 has invalid Bloom's level "L9"`,
			},
		},
		{
			name: "part A numbered past 10",
			mutate: func(qs []Question) []Question {
				for i := range qs {
					if qs[i].Part == PartA && qs[i].Number == 10 {
						qs[i].Number = 12
					}
				}
				return qs
			},
			want: []string{"Part A question 12 is numbered outside 1-10"},
		},
		{
			name: "part C not numbered 16",
			mutate: func(qs []Question) []Question {
				for i := range qs {
					if qs[i].Part == PartC {
						qs[i].Number = 15
					}
				}
				return qs
			},
			want: []string{"Part C question 15 must be numbered 16"},
		},
		{
			name: "higher band empty",
			mutate: func(qs []Question) []Question {
				for i := range qs {
					if qs[i].Part == PartC {
						qs[i].BloomLevel = L2
					}
				}
				return qs
			},
			want: []string{"HIGHER band (L5, L6) carries 0.00% of marks, expected 15-25%"},
		},
		{
			name: "middle band below minimum",
			mutate: func(qs []Question) []Question {
				for i := range qs {
					if qs[i].Part == PartB && qs[i].Option == "a" && *qs[i].OrPair >= 13 {
						qs[i].BloomLevel = L6
					}
				}
				return qs
			},
			want: []string{
				"MIDDLE band (L3, L4) carries 26.00% of marks, expected at least 40%",
				"HIGHER band (L5, L6) carries 54.00% of marks, expected 15-25%",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ComputeDistribution(tt.mutate(SampleQuestions()))
			if d.Valid() {
				t.Fatal("expected violations, got none")
			}
			for _, w := range tt.want {
				if !hasViolation(d.Violations, w) {
					t.Errorf("missing violation %q in %v", w, d.Violations)
				}
			}
		})
	}
}

func TestComputeDistribution_LowerBandBoundary(t *testing.T) {
	// Moving Part C to L2 puts LOWER at exactly 35%, the inclusive upper bound.
	qs := SampleQuestions()
	for i := range qs {
		if qs[i].Part == PartC {
			qs[i].BloomLevel = L2
		}
	}
	d := ComputeDistribution(qs)
	if b := d.Band(BandLower); !b.WithinPolicy || b.Percent != 35 {
		t.Errorf("LOWER = %.2f%% within=%v, want 35%% within policy", b.Percent, b.WithinPolicy)
	}
}

func TestComputeDistribution_OptionBDoesNotCount(t *testing.T) {
	qs := SampleQuestions()
	for i := range qs {
		if qs[i].Option == "b" {
			qs[i].BloomLevel = L6
			qs[i].CourseOutcome = CO1
		}
	}
	d := ComputeDistribution(qs)
	if !d.Valid() {
		t.Fatalf("expected no violations, got %v", d.Violations)
	}
	if d.ByBloom[L6] != 0 {
		t.Errorf("ByBloom[L6] = %d, want 0", d.ByBloom[L6])
	}
}

func TestComputeDistribution_CountsOptionAOverInvalidLabel(t *testing.T) {
	qs := SampleQuestions()
	pair := 13
	qs = append(qs, Question{
		Part:          PartB,
		Number:        pair,
		OrPair:        &pair,
		Option:        "",
		Text:          "Stray question without an option label.",
		CourseOutcome: CO1,
		BloomLevel:    L6,
		Marks:         PartBMarks,
	})

	d := ComputeDistribution(qs)
	if !hasViolation(d.Violations, `has invalid option label ""`) {
		t.Errorf("missing invalid label violation in %v", d.Violations)
	}
	if d.TotalMarks != PaperMaxMarks {
		t.Errorf("TotalMarks = %d, want %d", d.TotalMarks, PaperMaxMarks)
	}
	if d.ByBloom[L6] != 0 || d.ByBloom[L3] != 5*PartBMarks {
		t.Errorf("ByBloom = %v, want option (a) counted for pair 13", d.ByBloom)
	}
}

func TestComputeDistribution_Empty(t *testing.T) {
	d := ComputeDistribution(nil)

	if d.TotalMarks != 0 {
		t.Errorf("TotalMarks = %d, want 0", d.TotalMarks)
	}
	for _, want := range []string{"Part A must", "Part B must", "Part C must", "total marks must be 100, found 0"} {
		if !hasViolation(d.Violations, want) {
			t.Errorf("missing violation %q", want)
		}
	}
	if hasViolation(d.Violations, "band") {
		t.Errorf("band checks should be skipped on an empty paper: %v", d.Violations)
	}
}

func TestComputeDistribution_Deterministic(t *testing.T) {
	qs := SampleQuestions()
	qs[0].Marks = 3

	first := ComputeDistribution(qs)
	second := ComputeDistribution(qs)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("distribution differs between two computations of the same paper")
	}

	reversed := make([]Question, len(qs))
	for i := range qs {
		reversed[len(qs)-1-i] = qs[i]
	}
	if got := ComputeDistribution(reversed); !reflect.DeepEqual(first, got) {
		t.Fatalf("distribution depends on input order:\n%v\n%v", first.Violations, got.Violations)
	}
}

func TestSortedQuestions(t *testing.T) {
	qs := SampleQuestions()
	reversed := make([]Question, len(qs))
	for i := range qs {
		reversed[len(qs)-1-i] = qs[i]
	}

	sorted := SortedQuestions(reversed)
	var got []string
	for _, q := range sorted[9:13] {
		got = append(got, q.Slot())
	}
	want := []string{"A-10", "B-11a", "B-11b", "B-12a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("slots = %v, want %v", got, want)
	}
	if reversed[0].Part != PartC {
		t.Error("SortedQuestions must not reorder its input")
	}
}
