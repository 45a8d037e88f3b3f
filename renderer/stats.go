package renderer

import (
	"bytes"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
)

type WorkerStat struct {
	// The worker index.
	Id int

	// The number of frame rows rendered by this worker and the
	// percentage of the total frame area they represent.
	Rows         uint32
	FramePercent float32

	// Accumulated render time across the worker's blocks.
	RenderTime time.Duration
}

type FrameStats struct {
	// Individual worker stats.
	Workers []WorkerStat

	// Total render time for the entire frame.
	RenderTime time.Duration

	// False when the render was cancelled before all blocks completed.
	Completed bool
}

// Build a tabular representation of the frame statistics.
func (fs FrameStats) Table() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Worker", "Rows", "% of frame", "Render time"})
	for _, stat := range fs.Workers {
		table.Append([]string{
			fmt.Sprintf("%d", stat.Id),
			fmt.Sprintf("%d", stat.Rows),
			fmt.Sprintf("%02.1f %%", stat.FramePercent),
			stat.RenderTime.String(),
		})
	}
	status := "complete"
	if !fs.Completed {
		status = "cancelled"
	}
	table.SetFooter([]string{"", "", status, fs.RenderTime.String()})

	table.Render()
	return buf.String()
}
