package cli

import (
	"fmt"
	"os"

	"github.com/idilsaglam/todo/internal/model"
	"github.com/idilsaglam/todo/internal/state"
	"github.com/idilsaglam/todo/internal/ui"
)

// row is an item with its 1-based position in the unfiltered list, so
// indexes printed under a filter still work with done/rm/rename.
type row struct {
	n  int
	it model.Item
}

func renderList(s state.Snapshot, group bool) string {
	t := ui.Current()
	total := len(s.Items)

	header := fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render("Todos"),
		t.Success.Render(t.SymDone), s.CompletedCount,
		t.Pending.Render(t.SymPending), s.ActiveCount,
		t.Accent.Render("Total"), total,
	)

	lines := []string{
		header,
		t.Muted.Render(ui.ProgressBar(s.CompletedCount, total, 28)),
	}
	if s.Filter != model.FilterAll {
		lines = append(lines, t.Muted.Render("filter: "+s.Filter.String()))
	}
	lines = append(lines, "")

	rows := visibleRows(s)
	if group {
		lines = append(lines, groupLines(rows)...)
	} else {
		lines = append(lines, flatLines(rows)...)
	}
	lines = append(lines, "")
	lines = append(lines, t.Muted.Render(fmt.Sprintf("%d items left", s.ActiveCount)))
	lines = append(lines, t.Muted.Render("Tip: add with `todo add \"Buy milk\"`"))
	return ui.Panel(lines)
}

func visibleRows(s state.Snapshot) []row {
	var out []row
	for i, it := range s.Items {
		if s.Filter.Match(it) {
			out = append(out, row{n: i + 1, it: it})
		}
	}
	return out
}

func flatLines(rows []row) []string {
	t := ui.Current()
	if len(rows) == 0 {
		return []string{t.Muted.Render("no items")}
	}
	width := ui.TermWidth(os.Stdout, 80) - 14
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		idx := t.Muted.Render(fmt.Sprintf("%2d.", r.n))
		box := t.Muted.Render(t.BoxUnchecked)
		title := ui.Truncate(r.it.Title, width)
		if r.it.Completed {
			box = t.Success.Render(t.BoxChecked)
			title = t.Done.Render(title)
		}
		out = append(out, fmt.Sprintf("%s %s %s", idx, box, title))
	}
	return out
}

func groupLines(rows []row) []string {
	t := ui.Current()
	var pend, done []row
	for _, r := range rows {
		if r.it.Completed {
			done = append(done, r)
		} else {
			pend = append(pend, r)
		}
	}
	section := func(title string, rs []row) []string {
		lines := []string{t.Accent.Render(title)}
		if len(rs) == 0 {
			return append(lines, t.Muted.Render("(none)"))
		}
		return append(lines, flatLines(rs)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}
