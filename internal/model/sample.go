package model

// Sample content for a complete, valid Data Structures paper. Used by the
// seed command and by tests.

var samplePartA = []string{
	"Define an abstract data type with an example.",
	"What is the time complexity of inserting at the head of a singly linked list?",
	"Differentiate between a stack and a queue.",
	"Convert the infix expression A + B * C into postfix form.",
	"What is a circular queue?",
	"Define the height of a binary tree.",
	"State the properties of a binary search tree.",
	"What is a complete graph?",
	"Define hashing and a hash collision.",
	"List any two applications of a priority queue.",
}

var samplePartB = map[int][2]string{
	11: {
		"Explain the array and linked list implementations of the list ADT with their operations.",
		"Write routines to insert and delete a node in a doubly linked list and analyse their complexity.",
	},
	12: {
		"Evaluate a postfix expression using a stack.",
		"Explain the array implementation of a queue and its limitations.",
	},
	13: {
		"Explain insertion and deletion in a binary search tree with examples.",
		"Construct an AVL tree for the keys 30, 20, 40, 10, 25, 35, 50, 5 showing every rotation.",
	},
	14: {
		"Explain breadth first and depth first traversal of a graph with an example.",
		"Find the minimum spanning tree of the given graph using Prim's algorithm.",
	},
	15: {
		"Explain open addressing and separate chaining for collision resolution.",
		"Sort the list 54, 26, 93, 17, 77, 31, 44, 55, 20 using merge sort and analyse its complexity.",
	},
}

var sampleSubdivisions = [2][]Subdivision{
	{
		{Text: "Convert the expression (A + B) * (C - D) to postfix.", Marks: 7},
		{Text: "Evaluate 6 2 3 + - 3 8 2 / + * using a stack.", Marks: 6},
	},
	{
		{Text: "Explain the array implementation of a queue.", Marks: 7},
		{Text: "Show how a circular queue removes its limitation.", Marks: 6},
	},
}

const samplePartC = "Design a library management module that stores books in a balanced search " +
	"tree keyed by ISBN and a hash table keyed by author. Justify your choice of structures " +
	"and analyse the cost of search, insert and delete."

// SampleCODescriptions are the course outcomes of the sample paper.
var SampleCODescriptions = [5]string{
	"Implement linear data structures using arrays and linked lists.",
	"Apply stacks and queues to solve problems.",
	"Build and balance tree structures.",
	"Apply graph algorithms to real world problems.",
	"Analyse searching, sorting and hashing techniques.",
}

// SampleQuestions returns a complete paper that passes every distribution
// rule. Its bands sit on the policy boundaries: 20% lower, 65% middle and 15%
// higher order marks.
func SampleQuestions() []Question {
	qs := make([]Question, 0, PartAQuestions+PartBQuestions+PartCQuestions)
	for n := 1; n <= PartAQuestions; n++ {
		bloom := L1
		if n%2 == 0 {
			bloom = L2
		}
		qs = append(qs, Question{
			Part:          PartA,
			Number:        n,
			Text:          samplePartA[n-1],
			CourseOutcome: CourseOutcomes[(n-1)%5],
			BloomLevel:    bloom,
			Marks:         PartAMarks,
			Subdivisions:  []Subdivision{},
		})
	}
	for pair := FirstOrPair; pair <= LastOrPair; pair++ {
		for i, opt := range []string{"a", "b"} {
			p := pair
			q := Question{
				Part:          PartB,
				Number:        pair,
				OrPair:        &p,
				Option:        opt,
				Text:          samplePartB[pair][i],
				CourseOutcome: CourseOutcomes[pair-FirstOrPair],
				BloomLevel:    L3,
				Marks:         PartBMarks,
				Subdivisions:  []Subdivision{},
			}
			if opt == "b" {
				q.BloomLevel = L4
			}
			if pair == 12 {
				q.Subdivisions = append([]Subdivision{}, sampleSubdivisions[i]...)
			}
			qs = append(qs, q)
		}
	}
	qs = append(qs, Question{
		Part:          PartC,
		Number:        PartCNumber,
		Text:          samplePartC,
		CourseOutcome: CO5,
		BloomLevel:    L5,
		Marks:         PartCMarks,
		Subdivisions:  []Subdivision{},
	})
	return qs
}
