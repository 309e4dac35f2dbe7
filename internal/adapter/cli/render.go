package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"taskboard/internal/core/model/response"
)

// Renderer prints the task list as an aligned table.
type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) Tasks(tasks []response.TaskResponse) error {
	done := 0

	for _, task := range tasks {
		if task.Status == "Done" {
			done++
		}
	}

	fmt.Fprintf(r.out, "Total: %d  Completed: %d  Pending: %d\n\n", len(tasks), done, len(tasks)-done)

	if len(tasks) == 0 {
		_, err := fmt.Fprintln(r.out, "No tasks yet. Add your first task with `taskctl add`.")
		return err
	}

	w := tabwriter.NewWriter(r.out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tSTATUS\tTITLE\tDESCRIPTION")

	for _, task := range tasks {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", task.ID, task.Status, task.Title, task.Description)
	}

	return w.Flush()
}

func (r *Renderer) Message(format string, args ...any) {
	fmt.Fprintf(r.out, format+"\n", args...)
}
