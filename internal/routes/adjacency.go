// ABOUTME: Previous/next resolution for the navigation registry
// ABOUTME: Normalizes detail sub-paths to their section root before lookup

package routes

import "strings"

// Adjacent is the previous/next pair for a path. Either side is nil at the
// ends of the registry; both are nil for paths outside it.
type Adjacent struct {
	Previous *Entry `json:"previous"`
	Next     *Entry `json:"next"`
}

// Normalize maps a request path to the registry path used for adjacency
// lookup. It drops any query or fragment and a trailing slash (except on the
// root), and collapses detail sub-paths such as /work/my-project to their
// section root.
func Normalize(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	for _, root := range detailRoots {
		if strings.HasPrefix(path, root+"/") {
			return root
		}
	}
	return path
}

// Resolve returns the registry neighbours of path.
func Resolve(path string) Adjacent {
	i, ok := index[Normalize(path)]
	if !ok {
		return Adjacent{}
	}

	var adj Adjacent
	if i > 0 {
		prev := registry[i-1]
		adj.Previous = &prev
	}
	if i < len(registry)-1 {
		next := registry[i+1]
		adj.Next = &next
	}
	return adj
}
