package auth

// Verifier turns a bearer token into a caller identity.
// This abstraction allows swapping between identity providers (HS256 tokens today,
// an external OIDC issuer later) without changing the RPC interceptors.
type Verifier interface {
	// Verify checks the token and returns the identity it asserts.
	// Returns an error wrapping ErrInvalidToken if the token is not acceptable.
	Verify(token string) (Identity, error)
}

// Ensure JWTManager implements Verifier
var _ Verifier = (*JWTManager)(nil)
