package model

import (
	"fmt"
	"sort"
	"strings"
)

// BloomBand groups Bloom's levels into the three bands the mark policy is
// expressed in.
type BloomBand string

const (
	BandLower  BloomBand = "LOWER"
	BandMiddle BloomBand = "MIDDLE"
	BandHigher BloomBand = "HIGHER"
)

// BandPolicy is the inclusive percentage range a band must fall in.
type BandPolicy struct {
	Band       BloomBand    `json:"band"`
	Levels     []BloomLevel `json:"levels"`
	MinPercent int          `json:"min_percent"`
	MaxPercent int          `json:"max_percent"`
}

// DistributionPolicy is the Bloom's-level distribution every paper must meet.
var DistributionPolicy = []BandPolicy{
	{Band: BandLower, Levels: []BloomLevel{L1, L2}, MinPercent: 20, MaxPercent: 35},
	{Band: BandMiddle, Levels: []BloomLevel{L3, L4}, MinPercent: 40, MaxPercent: 100},
	{Band: BandHigher, Levels: []BloomLevel{L5, L6}, MinPercent: 15, MaxPercent: 25},
}

// PartSummary describes one section of the paper.
type PartSummary struct {
	Part      Part `json:"part"`
	Questions int  `json:"questions"`
	Counted   int  `json:"counted"`
	Marks     int  `json:"marks"`
}

// BandSummary is the share of marks a Bloom's band received.
type BandSummary struct {
	BandPolicy
	Marks        int     `json:"marks"`
	Percent      float64 `json:"percent"`
	WithinPolicy bool    `json:"within_policy"`
}

// Distribution is the computed mark breakdown of a paper. Only the questions
// a candidate actually answers are counted: every Part A and Part C question
// and one option of each Part B OR pair.
type Distribution struct {
	TotalMarks int                                  `json:"total_marks"`
	Parts      []PartSummary                        `json:"parts"`
	OrPairs    int                                  `json:"or_pairs"`
	ByCO       map[CourseOutcome]int                `json:"by_course_outcome"`
	ByBloom    map[BloomLevel]int                   `json:"by_bloom_level"`
	Matrix     map[CourseOutcome]map[BloomLevel]int `json:"matrix"`
	Bands      []BandSummary                        `json:"bands"`
	Violations []string                             `json:"violations"`
}

// Valid reports whether the distribution has no violations.
func (d *Distribution) Valid() bool {
	return len(d.Violations) == 0
}

// Part returns the summary of a single section.
func (d *Distribution) Part(p Part) PartSummary {
	for _, s := range d.Parts {
		if s.Part == p {
			return s
		}
	}
	return PartSummary{Part: p}
}

// Band returns the summary of a single band.
func (d *Distribution) Band(b BloomBand) BandSummary {
	for _, s := range d.Bands {
		if s.Band == b {
			return s
		}
	}
	return BandSummary{}
}

// ComputeDistribution validates a set of questions and computes the mark
// distribution. It never fails: every problem found is reported as a
// violation and the result is deterministic for the same input.
func ComputeDistribution(questions []Question) Distribution {
	d := Distribution{
		ByCO:       make(map[CourseOutcome]int, len(CourseOutcomes)),
		ByBloom:    make(map[BloomLevel]int, len(BloomLevels)),
		Matrix:     make(map[CourseOutcome]map[BloomLevel]int, len(CourseOutcomes)),
		Violations: []string{},
	}
	for _, co := range CourseOutcomes {
		d.ByCO[co] = 0
		d.Matrix[co] = make(map[BloomLevel]int, len(BloomLevels))
		for _, l := range BloomLevels {
			d.Matrix[co][l] = 0
		}
	}
	for _, l := range BloomLevels {
		d.ByBloom[l] = 0
	}

	ordered := SortedQuestions(questions)
	summaries := map[Part]*PartSummary{}
	for _, p := range Parts {
		summaries[p] = &PartSummary{Part: p}
	}

	var (
		counted  []*Question
		unknown  []*Question
		unpaired []*Question
		pairs    = map[int][]*Question{}
	)
	for i := range ordered {
		q := &ordered[i]
		s, ok := summaries[q.Part]
		if !ok {
			unknown = append(unknown, q)
			continue
		}
		s.Questions++
		switch {
		case q.Part != PartB:
			counted = append(counted, q)
		case q.OrPair == nil:
			unpaired = append(unpaired, q)
		default:
			pairs[*q.OrPair] = append(pairs[*q.OrPair], q)
		}
	}

	pairNumbers := make([]int, 0, len(pairs))
	for n := range pairs {
		pairNumbers = append(pairNumbers, n)
	}
	sort.Ints(pairNumbers)

	var pairViolations []string
	for _, n := range pairNumbers {
		options := pairs[n]
		counted = append(counted, countedOption(options))

		if n < FirstOrPair || n > LastOrPair {
			pairViolations = append(pairViolations,
				fmt.Sprintf("Part B OR pair %d is outside %d-%d", n, FirstOrPair, LastOrPair))
		}
		seen := map[string]int{}
		for _, q := range options {
			seen[q.Option]++
		}
		complete := seen["a"] == 1 && seen["b"] == 1 && len(options) == 2
		if complete {
			d.OrPairs++
			continue
		}
		for _, opt := range []string{"a", "b"} {
			switch {
			case seen[opt] == 0:
				pairViolations = append(pairViolations,
					fmt.Sprintf("Part B OR pair %d is missing option (%s)", n, opt))
			case seen[opt] > 1:
				pairViolations = append(pairViolations,
					fmt.Sprintf("Part B OR pair %d has %d questions for option (%s)", n, seen[opt], opt))
			}
		}
	}

	// ─── Structure ─────────────────────────────────────────────────────
	if n := summaries[PartA].Questions; n != PartAQuestions {
		d.Violations = append(d.Violations,
			fmt.Sprintf("Part A must have %d questions, found %d", PartAQuestions, n))
	}
	if n := summaries[PartB].Questions; n != PartBQuestions {
		d.Violations = append(d.Violations,
			fmt.Sprintf("Part B must have %d questions, found %d", PartBQuestions, n))
	}
	if d.OrPairs != PartBPairs {
		d.Violations = append(d.Violations,
			fmt.Sprintf("Part B must have %d complete OR pairs, found %d", PartBPairs, d.OrPairs))
	}
	if n := summaries[PartC].Questions; n != PartCQuestions {
		d.Violations = append(d.Violations,
			fmt.Sprintf("Part C must have %d question, found %d", PartCQuestions, n))
	}
	d.Violations = append(d.Violations, pairViolations...)
	for _, q := range unpaired {
		d.Violations = append(d.Violations,
			fmt.Sprintf("%s is not assigned to an OR pair", q.Label()))
	}
	for _, q := range unknown {
		d.Violations = append(d.Violations,
			fmt.Sprintf("question %d has unknown part %q", q.Number, q.Part))
	}

	// ─── Per question ──────────────────────────────────────────────────
	for i := range ordered {
		q := &ordered[i]
		if q.Part.Valid() {
			d.Violations = append(d.Violations, questionViolations(q)...)
		}
	}

	// ─── Totals ────────────────────────────────────────────────────────
	for _, q := range counted {
		summaries[q.Part].Counted++
		summaries[q.Part].Marks += q.Marks
		d.TotalMarks += q.Marks
		if q.CourseOutcome.Valid() {
			d.ByCO[q.CourseOutcome] += q.Marks
		}
		if q.BloomLevel.Valid() {
			d.ByBloom[q.BloomLevel] += q.Marks
		}
		if q.CourseOutcome.Valid() && q.BloomLevel.Valid() {
			d.Matrix[q.CourseOutcome][q.BloomLevel] += q.Marks
		}
	}
	for _, p := range Parts {
		d.Parts = append(d.Parts, *summaries[p])
	}
	if d.TotalMarks != PaperMaxMarks {
		d.Violations = append(d.Violations,
			fmt.Sprintf("total marks must be %d, found %d", PaperMaxMarks, d.TotalMarks))
	}

	// ─── Bloom's bands ─────────────────────────────────────────────────
	for _, policy := range DistributionPolicy {
		band := BandSummary{BandPolicy: policy}
		for _, l := range policy.Levels {
			band.Marks += d.ByBloom[l]
		}
		if d.TotalMarks > 0 {
			band.Percent = float64(band.Marks) * 100 / float64(d.TotalMarks)
			band.WithinPolicy = policy.MinPercent*d.TotalMarks <= 100*band.Marks &&
				100*band.Marks <= policy.MaxPercent*d.TotalMarks
			if !band.WithinPolicy {
				d.Violations = append(d.Violations, bandViolation(band))
			}
		}
		d.Bands = append(d.Bands, band)
	}

	return d
}

func questionViolations(q *Question) []string {
	var out []string
	label := q.Label()

	if strings.TrimSpace(q.Text) == "" {
		out = append(out, fmt.Sprintf("%s has no text", label))
	}
	switch {
	case q.Part == PartA && (q.Number < 1 || q.Number > PartAQuestions):
		out = append(out, fmt.Sprintf("%s is numbered outside 1-%d", label, PartAQuestions))
	case q.Part == PartC && q.Number != PartCNumber:
		out = append(out, fmt.Sprintf("%s must be numbered %d", label, PartCNumber))
	}
	if want := q.Part.ExpectedMarks(); q.Marks != want {
		out = append(out, fmt.Sprintf("%s carries %d marks, expected %d", label, q.Marks, want))
	}
	if q.Part == PartB && q.OrPair != nil && q.Option != "a" && q.Option != "b" {
		out = append(out, fmt.Sprintf("%s has invalid option label %q", label, q.Option))
	}

	switch {
	case q.CourseOutcome == "":
		out = append(out, fmt.Sprintf("%s is missing a course outcome", label))
	case !q.CourseOutcome.Valid():
		out = append(out, fmt.Sprintf("%s has invalid course outcome %q", label, q.CourseOutcome))
	}
	switch {
	case q.BloomLevel == "":
		out = append(out, fmt.Sprintf("%s is missing a Bloom's level", label))
	case !q.BloomLevel.Valid():
		out = append(out, fmt.Sprintf("%s has invalid Bloom's level %q", label, q.BloomLevel))
	}

	if len(q.Subdivisions) == 0 {
		return out
	}
	if q.Part != PartB {
		out = append(out, fmt.Sprintf("%s cannot have subdivisions", label))
		return out
	}
	if len(q.Subdivisions) > MaxSubdivisions {
		out = append(out, fmt.Sprintf("%s has %d subdivisions, at most %d allowed",
			label, len(q.Subdivisions), MaxSubdivisions))
	}
	if sum := q.SubdivisionMarks(); sum != q.Marks {
		out = append(out, fmt.Sprintf("%s subdivision marks total %d, expected %d", label, sum, q.Marks))
	}
	return out
}

// countedOption returns the question of an OR pair whose marks count towards
// the totals: option (a), or the first question when no (a) exists.
func countedOption(options []*Question) *Question {
	for _, q := range options {
		if q.Option == "a" {
			return q
		}
	}
	return options[0]
}

func bandViolation(b BandSummary) string {
	levels := make([]string, len(b.Levels))
	for i, l := range b.Levels {
		levels[i] = string(l)
	}
	expected := fmt.Sprintf("%d-%d%%", b.MinPercent, b.MaxPercent)
	if b.MaxPercent >= 100 {
		expected = fmt.Sprintf("at least %d%%", b.MinPercent)
	}
	return fmt.Sprintf("%s band (%s) carries %.2f%% of marks, expected %s",
		b.Band, strings.Join(levels, ", "), b.Percent, expected)
}

// SortedQuestions returns a copy of questions in print order: Part A by
// number, Part B by OR pair then option, Part C.
func SortedQuestions(questions []Question) []Question {
	out := make([]Question, len(questions))
	copy(out, questions)
	sort.SliceStable(out, func(i, j int) bool {
		pi, ni, oi := out[i].sortKey()
		pj, nj, oj := out[j].sortKey()
		if pi != pj {
			return pi < pj
		}
		if ni != nj {
			return ni < nj
		}
		return oi < oj
	})
	return out
}
