// Package pagecache holds rendered pages and API payloads in memory, keyed by
// request path. Entries carry the data tags they were built from so that a
// content write can drop them by tag as well as by path.
//
// Cache implements revalidate.Invalidator.
package pagecache
