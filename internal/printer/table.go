package printer

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/pyldin601/long-long-job/internal/model"
)

const tableStatePreviewLen = 40

// TablePrinter prints job information in a table format.
type TablePrinter struct {
	writer io.Writer
	now    func() time.Time
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w, now: time.Now}
}

// PrintCheckpointList prints checkpoints in a table format.
func (t *TablePrinter) PrintCheckpointList(cps []model.Checkpoint) error {
	if len(cps) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	defer tw.Flush()

	fmt.Fprintln(tw, "JOB\tCURSOR\tSTATE\tUPDATED")
	for _, cp := range cps {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n",
			cp.JobID,
			cp.Cursor,
			StatePreview(cp.State, tableStatePreviewLen),
			TimeAgo(cp.UpdatedAt, t.now()),
		)
	}

	return nil
}

// PrintCheckpoint prints the full checkpoint of a job.
func (t *TablePrinter) PrintCheckpoint(cp model.Checkpoint) error {
	fmt.Fprintf(t.writer, "Job:        %s\n", cp.JobID)
	fmt.Fprintf(t.writer, "Cursor:     %d\n", cp.Cursor)
	fmt.Fprintf(t.writer, "Updated:    %s\n", FormatTimestamp(cp.UpdatedAt))
	fmt.Fprintf(t.writer, "State size: %s\n", FormatBytes(len(cp.State)))
	fmt.Fprintf(t.writer, "State:\n%s\n", cp.State)

	return nil
}

// PrintRunResult prints the outcome of a finished run.
func (t *TablePrinter) PrintRunResult(res model.RunResult) error {
	fmt.Fprintf(t.writer, "Job %s (%s) finished with value %d after %d steps in %s\n",
		res.ID, res.Job, res.Value, res.Steps, res.Duration.Round(time.Millisecond))
	return nil
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}
