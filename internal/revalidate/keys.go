// ABOUTME: Cache key types and the ordered, de-duplicated KeySet
// ABOUTME: A key is a path (page or layout scope) or a named tag

package revalidate

import "strings"

// KeyKind distinguishes path keys from tag keys.
type KeyKind string

const (
	KindPath KeyKind = "path"
	KindTag  KeyKind = "tag"
)

// Scope applies to path keys. Layout scope covers the path and everything beneath it.
type Scope string

const (
	ScopePage   Scope = "page"
	ScopeLayout Scope = "layout"
)

// Named tags. Data fetches for each entity kind carry the matching tag.
const (
	TagProjects     = "projects"
	TagServices     = "services"
	TagTestimonials = "testimonials"
	TagFAQs         = "faqs"
	TagProcessSteps = "process-steps"
	TagPages        = "pages"
)

// AllTags lists every named tag in a fixed order.
var AllTags = []string{TagProjects, TagServices, TagTestimonials, TagFAQs, TagProcessSteps, TagPages}

// Key is a single cache key.
type Key struct {
	Kind  KeyKind `json:"kind"`
	Value string  `json:"value"`
	Scope Scope   `json:"scope,omitempty"`
}

func (k Key) String() string {
	if k.Kind == KindTag {
		return "tag:" + k.Value
	}
	if k.Scope == ScopeLayout {
		return "layout:" + k.Value
	}
	return "path:" + k.Value
}

// KeySet is an insertion-ordered set of keys. The zero value is empty and ready to use.
// A path added at layout scope absorbs the same path at page scope.
type KeySet struct {
	keys []Key
	pos  map[string]int // kind+value -> index in keys
}

func (s *KeySet) add(k Key) {
	if s.pos == nil {
		s.pos = make(map[string]int)
	}
	id := string(k.Kind) + ":" + k.Value
	if i, ok := s.pos[id]; ok {
		if k.Scope == ScopeLayout {
			s.keys[i].Scope = ScopeLayout
		}
		return
	}
	s.pos[id] = len(s.keys)
	s.keys = append(s.keys, k)
}

// AddPath adds a page-scoped path. Empty paths are ignored.
func (s *KeySet) AddPath(path string) {
	if path == "" {
		return
	}
	s.add(Key{Kind: KindPath, Value: path, Scope: ScopePage})
}

// AddLayout adds a layout-scoped path.
func (s *KeySet) AddLayout(path string) {
	if path == "" {
		return
	}
	s.add(Key{Kind: KindPath, Value: path, Scope: ScopeLayout})
}

// AddTag adds a tag key.
func (s *KeySet) AddTag(tag string) {
	if tag == "" {
		return
	}
	s.add(Key{Kind: KindTag, Value: tag})
}

// Keys returns the keys in insertion order. The slice is a copy.
func (s KeySet) Keys() []Key {
	out := make([]Key, len(s.keys))
	copy(out, s.keys)
	return out
}

// Len returns the number of keys.
func (s KeySet) Len() int {
	return len(s.keys)
}

// Paths returns every path key value in insertion order.
func (s KeySet) Paths() []string {
	var out []string
	for _, k := range s.keys {
		if k.Kind == KindPath {
			out = append(out, k.Value)
		}
	}
	return out
}

// Tags returns every tag key value in insertion order.
func (s KeySet) Tags() []string {
	var out []string
	for _, k := range s.keys {
		if k.Kind == KindTag {
			out = append(out, k.Value)
		}
	}
	return out
}

// HasPath reports whether path is in the set at any scope.
func (s KeySet) HasPath(path string) bool {
	_, ok := s.pos[string(KindPath)+":"+path]
	return ok
}

// HasTag reports whether tag is in the set.
func (s KeySet) HasTag(tag string) bool {
	_, ok := s.pos[string(KindTag)+":"+tag]
	return ok
}

// Covers reports whether invalidating the set would invalidate path,
// either directly or through a layout-scoped ancestor.
func (s KeySet) Covers(path string) bool {
	for _, k := range s.keys {
		if k.Kind != KindPath {
			continue
		}
		if k.Value == path {
			return true
		}
		if k.Scope == ScopeLayout && UnderLayout(k.Value, path) {
			return true
		}
	}
	return false
}

// Merge adds every key of other to s.
func (s *KeySet) Merge(other KeySet) {
	for _, k := range other.keys {
		s.add(k)
	}
}

// Strings renders each key with String, for logs and JSON responses.
func (s KeySet) Strings() []string {
	out := make([]string, len(s.keys))
	for i, k := range s.keys {
		out[i] = k.String()
	}
	return out
}

// UnderLayout reports whether path equals root or sits beneath it.
func UnderLayout(root, path string) bool {
	if root == "/" {
		return strings.HasPrefix(path, "/")
	}
	return path == root || strings.HasPrefix(path, root+"/")
}
