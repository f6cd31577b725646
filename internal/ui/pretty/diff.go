package pretty

import (
	"fmt"

	"github.com/yaklabco/gomdhtml/pkg/diff"
)

// FormatStale formats a source whose HTML output is out of date.
func (s *Styles) FormatStale(path, output string, d *diff.Diff) string {
	if d == nil {
		return fmt.Sprintf("%s  %s  %s\n", s.FilePath.Render(path), s.Warning.Render("stale"), s.Message.Render(output))
	}
	return fmt.Sprintf("%s  %s  %s %s\n",
		s.FilePath.Render(path),
		s.Warning.Render("stale"),
		s.Message.Render(output),
		s.Dim.Render(fmt.Sprintf("(+%d -%d)", d.Added, d.Removed)),
	)
}

// FormatDiff formats a unified diff with inserted lines in the success
// color and deleted lines in the error color.
func (s *Styles) FormatDiff(d *diff.Diff) string {
	return d.Paint(func(op diff.Op, line string) string {
		switch op {
		case diff.Insert:
			return s.Success.Render(line)
		case diff.Delete:
			return s.Error.Render(line)
		case diff.HunkHeader:
			return s.Info.Render(line)
		default:
			return line
		}
	})
}
