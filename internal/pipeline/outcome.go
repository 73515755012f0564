package pipeline

// OutcomeStatus says whether a document contributed findings.
type OutcomeStatus string

const (
	OutcomeProcessed OutcomeStatus = "processed"
	OutcomeSkipped   OutcomeStatus = "skipped"
)

// Outcome summarizes the handling of one input document.
type Outcome struct {
	File   string        `json:"file"`
	Status OutcomeStatus `json:"status"`
	// Reason explains a skip: unreadable PDF, no PDF attachment, etc.
	Reason string `json:"reason,omitempty"`
	DOIs   int    `json:"dois"`
}

// Processed builds an outcome for a document that went through the
// pipeline, whether or not it yielded DOIs.
func Processed(file string, dois int) Outcome {
	return Outcome{File: file, Status: OutcomeProcessed, DOIs: dois}
}

// Skipped builds an outcome for a document the pipeline could not use.
func Skipped(file, reason string) Outcome {
	return Outcome{File: file, Status: OutcomeSkipped, Reason: reason}
}
