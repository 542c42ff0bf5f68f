package srctl

import "strings"

// CommentNode is a translatable comment of one file version.
type CommentNode struct {
	Ordinal int    // Position among the translatable comments of the file (0-based)
	Line    int    // 1-based line of the comment start
	Text    string // Candidate text
	Hash    string // HashText(Text)
}

// DiffResult represents the difference between the comments of two file versions.
type DiffResult struct {
	// Added contains comments that are new (not in the previous version).
	Added []CommentNode

	// Removed contains comments that no longer exist in the new version.
	Removed []CommentNode

	// Unchanged contains comments present in both versions.
	Unchanged []CommentNode

	// Modified pairs a removed and an added comment found at the same ordinal.
	Modified []ModifiedNode
}

// ModifiedNode represents a comment whose text changed.
type ModifiedNode struct {
	Old CommentNode
	New CommentNode
}

// DiffStats contains summary statistics for a diff.
type DiffStats struct {
	Added     int
	Removed   int
	Unchanged int
	Modified  int
}

// Stats returns summary statistics for the diff.
func (d *DiffResult) Stats() DiffStats {
	return DiffStats{
		Added:     len(d.Added),
		Removed:   len(d.Removed),
		Unchanged: len(d.Unchanged),
		Modified:  len(d.Modified),
	}
}

// HasChanges returns true if there are any differences.
func (d *DiffResult) HasChanges() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0 || len(d.Modified) > 0
}

// NeedsTranslation returns the comments of the new version that have no
// translation from the previous run: added and modified ones.
func (d *DiffResult) NeedsTranslation() []CommentNode {
	out := make([]CommentNode, 0, len(d.Added)+len(d.Modified))
	out = append(out, d.Added...)
	for _, m := range d.Modified {
		out = append(out, m.New)
	}
	return out
}

// CommentNodes lists the translatable comments of text described by spans.
func CommentNodes(text string, spans []Span) []CommentNode {
	var nodes []CommentNode
	for _, span := range spans {
		candidate, _, _, ok := Candidate(span)
		if !ok {
			continue
		}
		nodes = append(nodes, CommentNode{
			Ordinal: len(nodes),
			Line:    LineOf(text, span.Start),
			Text:    candidate,
			Hash:    HashText(candidate),
		})
	}
	return nodes
}

// DiffComments compares the comments of two versions by candidate hash.
// A removed and an added comment sharing the same ordinal are reported as
// modified. Result slices follow document order.
func DiffComments(oldNodes, newNodes []CommentNode) *DiffResult {
	result := &DiffResult{}

	oldHashes := make(map[string]bool, len(oldNodes))
	for _, n := range oldNodes {
		oldHashes[n.Hash] = true
	}
	newHashes := make(map[string]bool, len(newNodes))
	for _, n := range newNodes {
		newHashes[n.Hash] = true
	}

	seen := make(map[string]bool)
	var removed []CommentNode
	for _, n := range oldNodes {
		if seen[n.Hash] {
			continue
		}
		seen[n.Hash] = true
		if newHashes[n.Hash] {
			result.Unchanged = append(result.Unchanged, n)
		} else {
			removed = append(removed, n)
		}
	}

	seen = make(map[string]bool)
	var added []CommentNode
	for _, n := range newNodes {
		if seen[n.Hash] || oldHashes[n.Hash] {
			continue
		}
		seen[n.Hash] = true
		added = append(added, n)
	}

	removedByOrdinal := make(map[int]int, len(removed))
	for i, n := range removed {
		removedByOrdinal[n.Ordinal] = i
	}
	matched := make(map[int]bool)
	for _, n := range added {
		if ri, ok := removedByOrdinal[n.Ordinal]; ok && !matched[ri] {
			matched[ri] = true
			result.Modified = append(result.Modified, ModifiedNode{Old: removed[ri], New: n})
			continue
		}
		result.Added = append(result.Added, n)
	}
	for i, n := range removed {
		if !matched[i] {
			result.Removed = append(result.Removed, n)
		}
	}

	return result
}

// DiffCandidates scans both versions with spans already computed and diffs their comments.
func DiffCandidates(oldText string, oldSpans []Span, newText string, newSpans []Span) *DiffResult {
	return DiffComments(CommentNodes(oldText, oldSpans), CommentNodes(newText, newSpans))
}

// LineOf returns the 1-based line number of offset in text.
func LineOf(text string, offset int) int {
	if offset > len(text) {
		offset = len(text)
	}
	return strings.Count(text[:offset], "\n") + 1
}
