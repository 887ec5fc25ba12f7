package report

import (
	"encoding/xml"
	"fmt"
)

// trxRun models the VSTest TRX format: a TestRun document whose Results
// section holds one UnitTestResult element per executed test.
type trxRun struct {
	XMLName xml.Name `xml:"TestRun"`
	Results struct {
		UnitTestResults []trxResult `xml:"UnitTestResult"`
	} `xml:"Results"`
}

type trxResult struct {
	TestName string `xml:"testName,attr"`
	Outcome  string `xml:"outcome,attr"`
}

// parseTRX extracts test outcomes from a TRX document.
func parseTRX(data []byte) ([]TestOutcome, error) {
	var run trxRun
	if err := xml.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("decoding TRX: %w", err)
	}

	outcomes := make([]TestOutcome, 0, len(run.Results.UnitTestResults))
	for _, result := range run.Results.UnitTestResults {
		outcomes = append(outcomes, TestOutcome{
			Name:    result.TestName,
			Outcome: trxOutcome(result.Outcome),
		})
	}
	return outcomes, nil
}

// trxOutcome maps a TRX outcome attribute to an Outcome. TRX distinguishes
// many states (Timeout, Aborted, Inconclusive...); anything that is not an
// explicit pass or skip counts as failed so the gate errs on the safe side.
func trxOutcome(value string) Outcome {
	switch value {
	case "Passed", "PassedButRunAborted":
		return OutcomePassed
	case "NotExecuted", "NotRunnable", "Disconnected", "Pending":
		return OutcomeSkipped
	default:
		return OutcomeFailed
	}
}
