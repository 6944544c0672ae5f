package gitrepo

import "github.com/go-git/go-git/v5/plumbing"

// TagRef is a single tag reference as exposed by the facade: just the
// name and the oid it ultimately resolves to (annotated tags are
// dereferenced to their target commit).
type TagRef struct {
	Name string
	Oid  string
}

// tagCache is the process-wide, lazily populated tag list described in
// spec §9: a single reader/writer is assumed, so no locking is needed.
// It is invalidated explicitly whenever a tag-creating operation runs.
type tagCache struct {
	tags  []TagRef
	valid bool
}

func (c *tagCache) invalidate() {
	c.valid = false
	c.tags = nil
}

func (f *Facade) loadTagCache() ([]TagRef, error) {
	if f.cache.valid {
		return f.cache.tags, nil
	}

	iter, err := f.repo.Tags()
	if err != nil {
		return nil, wrap("AllTags", err)
	}

	var tags []TagRef
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		oid, derefErr := f.dereferenceTag(ref)
		if derefErr != nil {
			return derefErr
		}
		tags = append(tags, TagRef{Name: ref.Name().Short(), Oid: oid.String()})
		return nil
	})
	if err != nil {
		return nil, wrap("AllTags", err)
	}

	f.cache.tags = tags
	f.cache.valid = true
	return tags, nil
}
