package manifest

import (
	"sort"

	"github.com/jakoblorz/project-version/internal/models"
)

// span is a half-open byte range [start, end) of a version literal,
// excluding any surrounding quotes.
type span struct {
	start int
	end   int
	field string
}

// splice replaces every span with the rendered version. Each literal keeps
// its own 'v' prefix style. The input is not modified.
func splice(data []byte, spans []span, newVersion *models.Version) ([]byte, []Change) {
	sorted := append([]span(nil), spans...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	out := make([]byte, 0, len(data)+8*len(sorted))
	changes := make([]Change, 0, len(sorted))
	last := 0
	for _, s := range sorted {
		old := string(data[s.start:s.end])
		literal := newVersion.Format(len(old) > 0 && old[0] == 'v')

		out = append(out, data[last:s.start]...)
		out = append(out, literal...)
		last = s.end

		changes = append(changes, Change{Field: s.field, OldValue: old, NewValue: literal})
	}
	out = append(out, data[last:]...)
	return out, changes
}
