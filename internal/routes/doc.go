// Package routes holds the site's primary navigation registry and derives
// previous/next adjacency from it.
//
// The registry is a compiled-in table. Its order is the canonical navigation
// order and changes only with a new build; nothing at runtime mutates it, so
// it is safe for concurrent use without locking.
//
// Detail pages (for example /work/my-project) are not registry entries. For
// adjacency they inherit the position of their section root:
//
//	routes.Resolve("/work/my-project") == routes.Resolve("/work")
package routes
