// ABOUTME: Tests for the navigation registry and adjacency resolver
// ABOUTME: Covers ends of the registry, non-registry paths, and detail collapsing

package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_OrderAndCopy(t *testing.T) {
	list := List()
	require.Len(t, list, Len())
	assert.Equal(t, "/", list[0].Path)
	assert.Equal(t, "/contact", list[len(list)-1].Path)

	// Mutating the returned slice must not leak into the registry.
	list[0].Title = "Changed"
	assert.Equal(t, "Home", List()[0].Title)
}

func TestList_PathsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, e := range List() {
		assert.False(t, seen[e.Path], "duplicate path %s", e.Path)
		seen[e.Path] = true
	}
}

func TestResolve_EveryEntry(t *testing.T) {
	list := List()
	for i, e := range list {
		adj := Resolve(e.Path)

		if i == 0 {
			assert.Nil(t, adj.Previous, "first entry has no previous")
		} else {
			require.NotNil(t, adj.Previous, "path %s", e.Path)
			assert.Equal(t, list[i-1], *adj.Previous)
		}

		if i == len(list)-1 {
			assert.Nil(t, adj.Next, "last entry has no next")
		} else {
			require.NotNil(t, adj.Next, "path %s", e.Path)
			assert.Equal(t, list[i+1], *adj.Next)
		}
	}
}

func TestResolve_OutsideRegistry(t *testing.T) {
	for _, p := range []string{"/admin", "/admin/x", "/admin/projects/1/edit", "/nope", "/workshop"} {
		adj := Resolve(p)
		assert.Nil(t, adj.Previous, "path %s", p)
		assert.Nil(t, adj.Next, "path %s", p)
	}
}

func TestResolve_DetailPagesInheritSection(t *testing.T) {
	want := Resolve("/work")
	for _, p := range []string{"/work/my-project", "/work/a/b/c", "/work/", "/work/x?tab=2"} {
		assert.Equal(t, want, Resolve(p), "path %s", p)
	}

	assert.Equal(t, Resolve("/services"), Resolve("/services/ux-research"))
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":                 "/",
		"/":                "/",
		"/about/":          "/about",
		"/about?x=1":       "/about",
		"/about#team":      "/about",
		"/work/slug":       "/work",
		"/services/a/b":    "/services",
		"/admin/projects/": "/admin/projects",
		"//":               "/",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), "input %q", in)
	}
}

func TestLookupAndCategories(t *testing.T) {
	e, ok := Lookup("/faqs")
	require.True(t, ok)
	assert.Equal(t, "FAQ", e.Title)
	assert.Equal(t, CategoryResources, e.Category)

	_, ok = Lookup("/faqs/")
	assert.False(t, ok, "lookup is exact")

	for _, e := range ByCategory(CategoryExplore) {
		assert.Equal(t, CategoryExplore, e.Category)
	}
	assert.Len(t, Paths(), Len())
}
