// ABOUTME: Slug resolution for entities whose public URL is slug-based
// ABOUTME: Caller-chosen slugs are pinned; unpinned slugs follow the title

package content

import "github.com/2389/folio/internal/slug"

// resolveSlug picks the slug to store and whether it is pinned. chosen is the
// caller-supplied slug (already validated); current and pinned describe the
// stored row on update (both zero on create). An unpinned slug is re-derived
// from the title on every write, so a rename moves the page.
func resolveSlug(chosen, title, current string, pinned bool) (string, bool, error) {
	switch {
	case chosen != "":
		return chosen, true, nil
	case pinned && current != "":
		return current, true, nil
	}

	derived := slug.Make(title)
	if !slug.Valid(derived) {
		return "", false, fieldError("slug", "could not be derived from title; supply one explicitly")
	}
	return derived, false, nil
}
