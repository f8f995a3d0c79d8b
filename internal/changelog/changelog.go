// Package changelog promotes the "Unreleased" section of a project changelog
// to a dated release heading.
package changelog

import (
	"bytes"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/jakoblorz/project-version/internal/filesystem"
	"github.com/jakoblorz/project-version/internal/models"
)

var fileNamePattern = regexp.MustCompile(`(?i)^(changelog|changes|history)(\.md)?$`)

// unreleasedPatterns in match precedence; the first pattern that matches
// anywhere wins and only its first occurrence is replaced.
var unreleasedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?mi)^##[ \t]*\[unreleased\]`),
	regexp.MustCompile(`(?mi)^##[ \t]+unreleased\b`),
	regexp.MustCompile(`(?mi)^\[unreleased\][ \t]*$`),
}

// compareLinkPattern matches a Keep a Changelog style footer such as
// "[Unreleased]: https://github.com/o/r/compare/v1.2.0...HEAD".
var compareLinkPattern = regexp.MustCompile(`(?mi)^\[unreleased\]:[ \t]*(\S*/compare/)(\S+?)\.\.\.HEAD[ \t]*$`)

// Changelog handles reading and writing changelog files
type Changelog struct {
	fs  filesystem.FileSystem
	now func() time.Time
}

// Option configures a Changelog.
type Option func(*Changelog)

// WithClock sets the source of the release date.
func WithClock(now func() time.Time) Option {
	return func(cl *Changelog) {
		cl.now = now
	}
}

// NewChangelog creates a new Changelog instance
func NewChangelog(fs filesystem.FileSystem, options ...Option) *Changelog {
	cl := &Changelog{fs: fs, now: time.Now}
	for _, option := range options {
		option(cl)
	}
	return cl
}

// Result describes what Update did, or would do in a dry run.
type Result struct {
	Path string

	// Found is false when the changelog has no unreleased section. The file
	// is then left untouched.
	Found bool

	// Previous is the heading that was replaced, Heading its replacement.
	Previous string
	Heading  string

	Before []byte
	After  []byte
}

// Changed reports whether the file content differs after the update.
func (r *Result) Changed() bool {
	return r != nil && r.Found && !bytes.Equal(r.Before, r.After)
}

// Find returns the changelog in projectRoot, matching CHANGELOG, CHANGES
// or HISTORY case-insensitively with an optional .md extension.
func (cl *Changelog) Find(projectRoot string) (string, bool) {
	entries, err := cl.fs.ReadDir(projectRoot)
	if err != nil {
		return "", false
	}
	for _, e := range entries {
		if !e.IsDir() && fileNamePattern.MatchString(e.Name()) {
			return filepath.Join(projectRoot, e.Name()), true
		}
	}
	return "", false
}

// Update replaces the unreleased heading with "## [X.Y.Z] - YYYY-MM-DD". A
// compare link footer for Unreleased is moved forward to the new tag. It
// returns nil when the project has no changelog.
func (cl *Changelog) Update(projectRoot string, previous, version *models.Version, dryRun bool) (*Result, error) {
	path, ok := cl.Find(projectRoot)
	if !ok {
		return nil, nil
	}

	data, err := cl.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read changelog: %w", err)
	}

	result := &Result{
		Path:    path,
		Heading: fmt.Sprintf("## [%s] - %s", version.String(), cl.now().Format("2006-01-02")),
		Before:  data,
		After:   data,
	}

	offset, err := bodyOffset(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse changelog front matter in %s: %w", path, err)
	}
	body := data[offset:]

	for _, pattern := range unreleasedPatterns {
		loc := pattern.FindIndex(body)
		if loc == nil {
			continue
		}
		result.Found = true
		result.Previous = strings.TrimSpace(string(body[loc[0]:loc[1]]))

		var buf bytes.Buffer
		buf.Write(data[:offset+loc[0]])
		buf.WriteString(result.Heading)
		buf.Write(moveCompareLink(body[loc[1]:], previous, version))
		result.After = buf.Bytes()
		break
	}

	if !result.Found || dryRun {
		return result, nil
	}

	if err := cl.fs.WriteFile(path, result.After, 0644); err != nil {
		return nil, fmt.Errorf("failed to write changelog: %w", err)
	}
	return result, nil
}

// bodyOffset returns where the markdown body starts after YAML/TOML front
// matter, or 0 when there is none.
func bodyOffset(data []byte) (int, error) {
	var matter map[string]any
	rest, err := frontmatter.Parse(bytes.NewReader(data), &matter)
	if err != nil {
		return 0, err
	}
	if len(rest) < len(data) && bytes.HasSuffix(data, rest) {
		return len(data) - len(rest), nil
	}
	return 0, nil
}

// moveCompareLink rewrites "[Unreleased]: .../compare/vOLD...HEAD" to start
// at the new tag and adds a link for the released version below it.
func moveCompareLink(text []byte, previous, version *models.Version) []byte {
	if previous == nil {
		return text
	}
	loc := compareLinkPattern.FindSubmatchIndex(text)
	if loc == nil {
		return text
	}

	base := string(text[loc[2]:loc[3]])
	prevRef := string(text[loc[4]:loc[5]])
	newRef, ok := replaceRefVersion(prevRef, previous, version)
	if !ok {
		return text
	}

	label := string(text[loc[0]:bytes.IndexByte(text[loc[0]:], ']')+loc[0]+1])
	links := fmt.Sprintf("%s: %s%s...HEAD\n[%s]: %s%s...%s",
		label, base, newRef,
		version.String(), base, prevRef, newRef)

	var buf bytes.Buffer
	buf.Write(text[:loc[0]])
	buf.WriteString(links)
	buf.Write(text[loc[1]:])
	return buf.Bytes()
}

// replaceRefVersion swaps the version at the end of a tag ref such as
// "v1.2.0" or "tool@1.2.0". The version must be the whole trailing
// component, so "v11.2.0" does not match 1.2.0.
func replaceRefVersion(ref string, previous, version *models.Version) (string, bool) {
	old := previous.String()
	if !strings.HasSuffix(ref, old) {
		return "", false
	}
	prefix := strings.TrimSuffix(ref, old)
	if prefix != "" {
		switch c := prefix[len(prefix)-1]; {
		case c >= '0' && c <= '9', c == '.':
			return "", false
		case c == 'v' && len(prefix) > 1:
			if p := prefix[len(prefix)-2]; p >= '0' && p <= '9' || p == '.' {
				return "", false
			}
		}
	}
	return prefix + version.String(), true
}
