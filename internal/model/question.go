package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Part identifies the section of a question paper a question belongs to.
type Part string

const (
	PartA Part = "A"
	PartB Part = "B"
	PartC Part = "C"
)

// Layout of a regulation-format end semester paper.
const (
	PartAQuestions = 10
	PartAMarks     = 2
	PartBQuestions = 10
	PartBPairs     = 5
	PartBMarks     = 13
	PartCQuestions = 1
	PartCMarks     = 15
	PaperMaxMarks  = 100

	FirstOrPair     = 11
	LastOrPair      = 15
	PartCNumber     = 16
	MaxSubdivisions = 2
)

// Parts lists the paper sections in print order.
var Parts = []Part{PartA, PartB, PartC}

// Valid reports whether p is one of the known sections.
func (p Part) Valid() bool {
	return p == PartA || p == PartB || p == PartC
}

// ExpectedMarks returns the marks every question of the part must carry.
func (p Part) ExpectedMarks() int {
	switch p {
	case PartA:
		return PartAMarks
	case PartB:
		return PartBMarks
	case PartC:
		return PartCMarks
	default:
		return 0
	}
}

// CourseOutcome is one of the five course outcomes a question maps to.
type CourseOutcome string

const (
	CO1 CourseOutcome = "CO1"
	CO2 CourseOutcome = "CO2"
	CO3 CourseOutcome = "CO3"
	CO4 CourseOutcome = "CO4"
	CO5 CourseOutcome = "CO5"
)

// CourseOutcomes lists all outcomes in order.
var CourseOutcomes = []CourseOutcome{CO1, CO2, CO3, CO4, CO5}

func (c CourseOutcome) Valid() bool {
	for _, co := range CourseOutcomes {
		if c == co {
			return true
		}
	}
	return false
}

// BloomLevel is a level of Bloom's revised taxonomy, L1 (remember) to L6 (create).
type BloomLevel string

const (
	L1 BloomLevel = "L1"
	L2 BloomLevel = "L2"
	L3 BloomLevel = "L3"
	L4 BloomLevel = "L4"
	L5 BloomLevel = "L5"
	L6 BloomLevel = "L6"
)

// BloomLevels lists all levels in order.
var BloomLevels = []BloomLevel{L1, L2, L3, L4, L5, L6}

func (b BloomLevel) Valid() bool {
	for _, l := range BloomLevels {
		if b == l {
			return true
		}
	}
	return false
}

// Band returns the cognitive band the level is grouped into.
func (b BloomLevel) Band() BloomBand {
	switch b {
	case L1, L2:
		return BandLower
	case L3, L4:
		return BandMiddle
	default:
		return BandHigher
	}
}

// Subdivision is one of at most two sub-parts of a Part B question.
type Subdivision struct {
	Text  string `json:"text" binding:"required,max=4000"`
	Marks int    `json:"marks" binding:"required,min=1,max=15"`
}

// Question is a single entry on a question paper. Part B questions come in
// OR pairs: options (a) and (b) share a pair number and the candidate answers one.
type Question struct {
	ID            uuid.UUID     `json:"id"`
	PaperID       uuid.UUID     `json:"paper_id"`
	Part          Part          `json:"part"`
	Number        int           `json:"number"`
	OrPair        *int          `json:"or_pair,omitempty"`
	Option        string        `json:"option,omitempty"`
	Text          string        `json:"text"`
	Answer        string        `json:"answer,omitempty"`
	Subdivisions  []Subdivision `json:"subdivisions"`
	CourseOutcome CourseOutcome `json:"course_outcome"`
	BloomLevel    BloomLevel    `json:"bloom_level"`
	Marks         int           `json:"marks"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// Slot identifies the printed position of a question. Two questions on the
// same paper never share a slot.
func (q *Question) Slot() string {
	if q.Part == PartB && q.OrPair != nil {
		return fmt.Sprintf("B-%d%s", *q.OrPair, q.Option)
	}
	return fmt.Sprintf("%s-%d", q.Part, q.Number)
}

// Label is the human-readable reference used in violation messages,
// e.g. "Part B question 12 (b)".
func (q *Question) Label() string {
	if q.Part == PartB && q.OrPair != nil && q.Option != "" {
		return fmt.Sprintf("Part %s question %d (%s)", q.Part, *q.OrPair, q.Option)
	}
	return fmt.Sprintf("Part %s question %d", q.Part, q.Number)
}

// sortKey orders questions the way they are printed.
func (q *Question) sortKey() (int, int, string) {
	part := 3
	switch q.Part {
	case PartA:
		part = 0
	case PartB:
		part = 1
	case PartC:
		part = 2
	}
	num := q.Number
	if q.Part == PartB && q.OrPair != nil {
		num = *q.OrPair
	}
	return part, num, q.Option
}

// SubdivisionMarks sums the marks of all subdivisions.
func (q *Question) SubdivisionMarks() int {
	total := 0
	for _, s := range q.Subdivisions {
		total += s.Marks
	}
	return total
}

// QuestionRequest is the payload for adding or replacing a question.
type QuestionRequest struct {
	Part          Part          `json:"part" binding:"required,oneof=A B C"`
	Number        int           `json:"number" binding:"required,min=1,max=16"`
	OrPair        *int          `json:"or_pair" binding:"omitempty,min=11,max=15"`
	Option        string        `json:"option" binding:"omitempty,oneof=a b"`
	Text          string        `json:"text" binding:"required,max=4000"`
	Answer        string        `json:"answer" binding:"omitempty,max=8000"`
	Subdivisions  []Subdivision `json:"subdivisions" binding:"omitempty,max=2,dive"`
	CourseOutcome CourseOutcome `json:"course_outcome" binding:"required,oneof=CO1 CO2 CO3 CO4 CO5"`
	BloomLevel    BloomLevel    `json:"bloom_level" binding:"required,oneof=L1 L2 L3 L4 L5 L6"`
	Marks         int           `json:"marks" binding:"required,min=1,max=100"`
}

// ToQuestion converts the request into a question. A Part B question sent
// without an explicit pair takes its number as the pair.
func (r QuestionRequest) ToQuestion() Question {
	q := Question{
		Part:          r.Part,
		Number:        r.Number,
		OrPair:        r.OrPair,
		Option:        r.Option,
		Text:          r.Text,
		Answer:        r.Answer,
		Subdivisions:  r.Subdivisions,
		CourseOutcome: r.CourseOutcome,
		BloomLevel:    r.BloomLevel,
		Marks:         r.Marks,
	}
	if q.Part == PartB && q.OrPair == nil && q.Number >= FirstOrPair && q.Number <= LastOrPair {
		pair := q.Number
		q.OrPair = &pair
	}
	if q.Part == PartB && q.OrPair != nil {
		q.Number = *q.OrPair
	}
	if q.Part != PartB {
		q.OrPair = nil
		q.Option = ""
	}
	if q.Subdivisions == nil {
		q.Subdivisions = []Subdivision{}
	}
	return q
}
