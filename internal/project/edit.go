package project

// Edit describes a change to an existing project. Nil fields keep their
// current value.
type Edit struct {
	Name *string
	Dir  *string
	Repo *string

	AddTags    []string
	RemoveTags []string

	AddLinks    []string
	RemoveLinks []string
}

// Apply returns a copy of p with e applied.
func (p Project) Apply(e Edit) Project {
	out := p
	if e.Name != nil {
		out.Name = *e.Name
	}
	if e.Dir != nil {
		out.Dir = *e.Dir
	}
	if e.Repo != nil {
		out.Repo = *e.Repo
	}
	out.Tags = ApplyTagDelta(p.Tags, e.AddTags, e.RemoveTags)
	out.Links = ApplyTagDelta(p.Links, e.AddLinks, e.RemoveLinks)
	return out
}

// ApplyTagDelta returns (current followed by add) without any element of
// remove. Order is preserved and duplicates are kept.
func ApplyTagDelta(current, add, remove []string) []string {
	removed := make(map[string]struct{}, len(remove))
	for _, r := range remove {
		removed[r] = struct{}{}
	}

	out := make([]string, 0, len(current)+len(add))
	for _, list := range [][]string{current, add} {
		for _, t := range list {
			if _, drop := removed[t]; drop {
				continue
			}
			out = append(out, t)
		}
	}
	return out
}
