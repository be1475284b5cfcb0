package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DocumentTemplate holds the fixed text printed on every generated question
// paper. Values missing from the YAML file keep their defaults.
type DocumentTemplate struct {
	Institution     string   `yaml:"institution"`
	Affiliation     string   `yaml:"affiliation"`
	ExamTitle       string   `yaml:"exam_title"`
	Duration        string   `yaml:"duration"`
	Instructions    []string `yaml:"instructions"`
	Checklist       []string `yaml:"checklist"`
	Declaration     string   `yaml:"declaration"`
	VerificationURL string   `yaml:"verification_url"`
}

// DefaultDocumentTemplate returns the built-in template.
func DefaultDocumentTemplate() DocumentTemplate {
	return DocumentTemplate{
		Institution: "COLLEGE OF ENGINEERING AND TECHNOLOGY",
		Affiliation: "(An Autonomous Institution)",
		ExamTitle:   "B.E. / B.Tech. DEGREE END SEMESTER EXAMINATIONS",
		Duration:    "Three Hours",
		Instructions: []string{
			"Answer ALL questions.",
			"Part A: 10 x 2 = 20 marks. Part B: 5 x 13 = 65 marks. Part C: 1 x 15 = 15 marks.",
			"In Part B, answer either (a) or (b) of each question.",
		},
		Checklist: []string{
			"Questions are within the prescribed syllabus.",
			"Each question is mapped to a course outcome and a Bloom's level.",
			"Marks of every subdivision add up to the marks of the question.",
			"Bloom's level distribution is within the prescribed limits.",
			"No question is repeated from the previous two examinations.",
			"The answer key / scheme of evaluation is prepared.",
		},
		Declaration: "I declare that this question paper has been set by me in accordance with the " +
			"regulations and that its contents have not been disclosed to anyone.",
		VerificationURL: "https://erp.example.edu/verify/papers/",
	}
}

// LoadDocumentTemplate reads the template from path over the defaults. A
// missing file is not an error.
func LoadDocumentTemplate(path string) (DocumentTemplate, error) {
	tmpl := DefaultDocumentTemplate()
	if path == "" {
		return tmpl, nil
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return tmpl, nil
	}
	if err != nil {
		return tmpl, fmt.Errorf("read document template: %w", err)
	}
	if err := yaml.Unmarshal(raw, &tmpl); err != nil {
		return tmpl, fmt.Errorf("parse document template: %w", err)
	}
	return tmpl, nil
}
