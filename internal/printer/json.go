package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/pyldin601/long-long-job/internal/model"
)

// JSONPrinter prints job information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

type checkpointOutput struct {
	JobID     string          `json:"job_id"`
	Cursor    int             `json:"cursor"`
	State     json.RawMessage `json:"state,omitempty"`
	RawState  string          `json:"raw_state,omitempty"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type runResultOutput struct {
	ID         string  `json:"id"`
	Job        string  `json:"job"`
	Value      int     `json:"value"`
	Steps      int     `json:"steps"`
	DurationMS float64 `json:"duration_ms"`
}

type messageOutput struct {
	Message string `json:"message"`
}

// newCheckpointOutput maps a checkpoint to its JSON representation. States that
// are valid JSON are embedded as is, any other encoding is returned as a string.
func newCheckpointOutput(cp model.Checkpoint) checkpointOutput {
	out := checkpointOutput{
		JobID:     cp.JobID,
		Cursor:    cp.Cursor,
		UpdatedAt: cp.UpdatedAt.UTC(),
	}

	if json.Valid(cp.State) {
		out.State = json.RawMessage(cp.State)
	} else {
		out.RawState = string(cp.State)
	}

	return out
}

// PrintCheckpointList prints checkpoints in JSON format.
func (j *JSONPrinter) PrintCheckpointList(cps []model.Checkpoint) error {
	items := make([]checkpointOutput, 0, len(cps))
	for _, cp := range cps {
		items = append(items, newCheckpointOutput(cp))
	}

	return j.encode(items)
}

// PrintCheckpoint prints a checkpoint in JSON format.
func (j *JSONPrinter) PrintCheckpoint(cp model.Checkpoint) error {
	return j.encode(newCheckpointOutput(cp))
}

// PrintRunResult prints the outcome of a run in JSON format.
func (j *JSONPrinter) PrintRunResult(res model.RunResult) error {
	return j.encode(runResultOutput{
		ID:         res.ID,
		Job:        res.Job,
		Value:      res.Value,
		Steps:      res.Steps,
		DurationMS: float64(res.Duration) / float64(time.Millisecond),
	})
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
