package ports

// TokenService issues and verifies signed, expiring bearer tokens bound to a
// username. Tokens are stateless: validity is established purely by signature
// and expiry, never by a lookup.
type TokenService interface {
	// Issue returns a signed token whose subject is username.
	Issue(username string) (string, error)
	// ExtractSubject decodes and signature-verifies the token, returning its
	// subject. Any malformed, forged, or expired token yields
	// domain.ErrInvalidToken; decode failures never propagate as faults.
	ExtractSubject(token string) (string, error)
	// Verify reports whether the token is authentic, unexpired, and bound to
	// expectedUsername.
	Verify(token, expectedUsername string) bool
}
