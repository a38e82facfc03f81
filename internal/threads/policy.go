package threads

// TruncatePolicy cuts text to a maximum number of characters. The cut is hard:
// no ellipsis is added.
type TruncatePolicy struct {
	Limit int
}

// Apply returns s cut to at most Limit characters
func (p TruncatePolicy) Apply(s string) string {
	if p.Limit <= 0 {
		return ""
	}
	n := 0
	for i := range s {
		if n == p.Limit {
			return s[:i]
		}
		n++
	}
	return s
}

// Fit returns body+suffix cut to at most Limit characters, cutting body first so
// the suffix survives whenever it fits on its own.
func (p TruncatePolicy) Fit(body, suffix string) string {
	suffixLen := runeCount(suffix)
	if suffixLen >= p.Limit {
		return p.Apply(suffix)
	}
	return TruncatePolicy{Limit: p.Limit - suffixLen}.Apply(body) + suffix
}

func runeCount(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}

// TagMatchPolicy maps issue labels to forum tags. A tag is applied when its name
// equals a label exactly; labels without a tag are dropped.
type TagMatchPolicy struct{}

// Match returns the available tags named by labels, in forum order
func (TagMatchPolicy) Match(available []Tag, labels []string) []Tag {
	if len(labels) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(labels))
	for _, label := range labels {
		wanted[label] = struct{}{}
	}

	var out []Tag
	for _, tag := range available {
		if _, ok := wanted[tag.Name]; ok {
			out = append(out, tag)
		}
	}
	return out
}
