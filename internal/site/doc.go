// Package site serves the portfolio.
//
// Public HTML pages and anonymous JSON list reads are rendered through
// pagecache.Cache under their request path, tagged with the content they read.
// Admin writes go through content.Service, which invalidates exactly the
// affected paths and tags before the response is sent, so the next read of
// an affected page renders fresh.
//
// Routes:
//
//	GET  /, /work, /work/{slug}, /services, /services/{slug},
//	     /testimonials, /faqs, /process, /{slug}        public pages
//	GET  /api/{entity}[/{id}]                           public reads
//	POST|PUT|DELETE /api/{entity}[/{id}]                editor token
//	GET  /api/audit, /api/feedback, /api/contact        admin token
//	POST /api/feedback, /api/contact                    public
//	POST /api/revalidate                                shared secret
//	GET  /api/navigation?path=                          previous/next
//	GET  /health, /health/ready, /metrics
package site
