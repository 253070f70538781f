// ABOUTME: Shared-secret check for the manual revalidation endpoint
// ABOUTME: Compares in constant time and never accepts an unconfigured secret

package auth

import "crypto/subtle"

// SecretMatches reports whether provided equals expected. An empty expected
// secret matches nothing.
func SecretMatches(provided, expected string) bool {
	if expected == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) == 1
}
