// Package slug derives URL-safe identifiers from human-entered titles.
package slug
