package fix

import "bytes"

// ApplyEdits applies a normalized slice of edits to content.
// Edits must be in descending order (see Normalize); they are replayed
// right to left, so no offset ever needs adjusting.
func ApplyEdits(content []byte, edits []TextEdit) []byte {
	if len(edits) == 0 {
		return content
	}

	delta := 0
	for _, e := range edits {
		delta += len(e.NewText) - e.Span.Length
	}

	var out bytes.Buffer
	out.Grow(len(content) + delta)

	// Walking the descending slice backwards produces the output front to
	// back in one pass, which is equivalent to sequential right-to-left
	// replacement.
	cursor := 0
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		out.Write(content[cursor:e.Span.Start])
		out.WriteString(e.NewText)
		cursor = e.Span.End()
	}
	out.Write(content[cursor:])

	return out.Bytes()
}

// Apply is ApplyEdits for string content.
func Apply(text string, edits []TextEdit) string {
	return string(ApplyEdits([]byte(text), edits))
}
