// ABOUTME: Static ordered registry of the site's primary navigation routes
// ABOUTME: Exposes read-only accessors; the table never changes at runtime

package routes

// Category groups registry entries for navigation menus.
type Category string

// Category values.
const (
	CategoryMain      Category = "main"
	CategoryResources Category = "resources"
	CategoryExplore   Category = "explore"
	CategoryOther     Category = "other"
)

// Entry is one primary navigation route.
type Entry struct {
	Title    string   `json:"title"`
	Path     string   `json:"path"`
	Category Category `json:"category"`
}

// registry is the canonical navigation order.
var registry = [...]Entry{
	{Title: "Home", Path: "/", Category: CategoryMain},
	{Title: "Work", Path: "/work", Category: CategoryMain},
	{Title: "Services", Path: "/services", Category: CategoryMain},
	{Title: "About", Path: "/about", Category: CategoryMain},
	{Title: "Process", Path: "/process", Category: CategoryResources},
	{Title: "Testimonials", Path: "/testimonials", Category: CategoryResources},
	{Title: "FAQ", Path: "/faqs", Category: CategoryResources},
	{Title: "Playground", Path: "/playground", Category: CategoryExplore},
	{Title: "Contact", Path: "/contact", Category: CategoryMain},
}

// detailRoots are sections whose sub-paths are detail pages.
var detailRoots = [...]string{"/work", "/services"}

// index maps each registry path to its position.
var index = func() map[string]int {
	m := make(map[string]int, len(registry))
	for i, e := range registry {
		if _, dup := m[e.Path]; dup {
			panic("routes: duplicate registry path " + e.Path)
		}
		m[e.Path] = i
	}
	return m
}()

// List returns the registry in navigation order. The returned slice is a copy.
func List() []Entry {
	out := make([]Entry, len(registry))
	copy(out, registry[:])
	return out
}

// Len returns the number of registry entries.
func Len() int {
	return len(registry)
}

// Lookup returns the entry whose path exactly matches path.
func Lookup(path string) (Entry, bool) {
	i, ok := index[path]
	if !ok {
		return Entry{}, false
	}
	return registry[i], true
}

// ByCategory returns the entries in category c, in navigation order.
func ByCategory(c Category) []Entry {
	var out []Entry
	for _, e := range registry {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// Paths returns every registry path in navigation order.
func Paths() []string {
	out := make([]string, len(registry))
	for i, e := range registry {
		out[i] = e.Path
	}
	return out
}
