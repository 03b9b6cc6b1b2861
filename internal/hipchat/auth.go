package hipchat

// Authorization schemes accepted by the HipChat API.
const (
	SchemeBearer = "Bearer"
	SchemeBasic  = "Basic"
)

// Credential is an immutable token and scheme pair rendered into the
// Authorization header.
type Credential struct {
	token  string
	scheme string
}

// NewCredential stores token and scheme verbatim.
func NewCredential(token, scheme string) Credential {
	return Credential{token: token, scheme: scheme}
}

// Token returns the raw token.
func (c Credential) Token() string {
	return c.token
}

// Scheme returns the authorization scheme, e.g. "Bearer".
func (c Credential) Scheme() string {
	return c.scheme
}

// HeaderValue returns the Authorization header value "<scheme> <token>".
func (c Credential) HeaderValue() string {
	return c.scheme + " " + c.token
}
