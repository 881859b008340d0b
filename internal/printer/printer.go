package printer

import "github.com/pyldin601/long-long-job/internal/model"

// Printer knows how to print job information in different formats.
type Printer interface {
	PrintCheckpointList(cps []model.Checkpoint) error
	PrintCheckpoint(cp model.Checkpoint) error
	PrintRunResult(res model.RunResult) error
	PrintMessage(msg string) error
}
