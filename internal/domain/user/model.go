package user

// Principal is the verified identity triple supplied by the gatekeeper
// identity provider. The engine trusts it as input and never re-verifies
// cryptographic claims.
type Principal struct {
	AccountID   string
	DisplayName string
	Email       string
}
