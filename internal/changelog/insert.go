package changelog

import "strings"

// Insert splices a rendered fragment into existing changelog content at
// the given line offset, preserving every existing line verbatim. Offset 0
// places the fragment at the top; offsets past the end append. An empty
// fragment returns the content unchanged. A blank line separates the
// fragment from whatever follows it, so repeated insertions at the same
// offset stack cleanly without corrupting the older content.
func Insert(content, fragment string, offset int) string {
	fragment = strings.TrimRight(fragment, "\n")
	if fragment == "" {
		return content
	}

	lines := strings.Split(content, "\n")
	if offset < 0 {
		offset = 0
	}
	if offset > len(lines) {
		offset = len(lines)
	}

	merged := make([]string, 0, len(lines)+strings.Count(fragment, "\n")+2)
	merged = append(merged, lines[:offset]...)
	merged = append(merged, strings.Split(fragment, "\n")...)
	merged = append(merged, "")
	merged = append(merged, lines[offset:]...)
	return strings.Join(merged, "\n")
}
