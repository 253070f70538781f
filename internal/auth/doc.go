// Package auth provides authentication and authorization for the folio admin API.
//
// # JWT Tokens
//
// Admin clients authenticate with HS256 JWTs signed with auth.jwt_secret
// (at least 32 bytes). Tokens carry:
//
//   - sub: who the bearer is; recorded as the actor in the audit log
//   - role: "admin" or "editor" (missing means editor)
//   - exp: expiry
//
// Tokens are minted with `folio token`.
//
// # HTTP Middleware
//
//	HTTPAuthMiddleware(verifier, logger) // 401 without a valid token
//	RequireEditorHTTP()                  // 403 unless admin or editor
//	RequireAdminHTTP()                   // 403 unless admin
//
// Handlers read the bearer with FromContext, or Actor for a display name.
//
// # Revalidation Secret
//
// The manual revalidation endpoint is protected by a shared secret instead of
// a token so that deploy pipelines can call it. SecretMatches compares in
// constant time.
package auth
