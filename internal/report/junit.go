package report

import (
	"encoding/xml"
	"fmt"
)

// junitSuites models JUnit-style XML: either a <testsuites> root wrapping
// <testsuite> elements, or a single <testsuite> root. Suites may nest.
type junitSuites struct {
	Suites []junitSuite `xml:"testsuite"`
}

type junitSuite struct {
	Name   string       `xml:"name,attr"`
	Cases  []junitCase  `xml:"testcase"`
	Suites []junitSuite `xml:"testsuite"`
}

type junitCase struct {
	Name      string       `xml:"name,attr"`
	ClassName string       `xml:"classname,attr"`
	Failure   *junitDetail `xml:"failure"`
	Error     *junitDetail `xml:"error"`
	Skipped   *junitDetail `xml:"skipped"`
}

type junitDetail struct {
	Message string `xml:"message,attr"`
}

// parseJUnit extracts test outcomes from a JUnit document.
func parseJUnit(data []byte) ([]TestOutcome, error) {
	root, err := rootElement(data)
	if err != nil {
		return nil, err
	}

	var suites []junitSuite
	switch root {
	case "testsuites":
		var doc junitSuites
		if err := xml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding JUnit: %w", err)
		}
		suites = doc.Suites
	case "testsuite":
		var suite junitSuite
		if err := xml.Unmarshal(data, &suite); err != nil {
			return nil, fmt.Errorf("decoding JUnit: %w", err)
		}
		suites = []junitSuite{suite}
	default:
		return nil, fmt.Errorf("unexpected JUnit root %q", root)
	}

	var outcomes []TestOutcome
	for _, suite := range suites {
		outcomes = append(outcomes, suiteOutcomes(suite)...)
	}
	return outcomes, nil
}

func suiteOutcomes(suite junitSuite) []TestOutcome {
	var outcomes []TestOutcome
	for _, testCase := range suite.Cases {
		outcomes = append(outcomes, TestOutcome{
			Name:    junitTestName(testCase),
			Outcome: junitOutcome(testCase),
		})
	}
	for _, nested := range suite.Suites {
		outcomes = append(outcomes, suiteOutcomes(nested)...)
	}
	return outcomes
}

// junitTestName joins classname and name the way test reports display them.
func junitTestName(testCase junitCase) string {
	if testCase.ClassName != "" {
		return testCase.ClassName + "." + testCase.Name
	}
	return testCase.Name
}

func junitOutcome(testCase junitCase) Outcome {
	switch {
	case testCase.Failure != nil, testCase.Error != nil:
		return OutcomeFailed
	case testCase.Skipped != nil:
		return OutcomeSkipped
	default:
		return OutcomePassed
	}
}
