// Package verifier implements third-party identity token verification for
// federated login. Only Google is supported; the auth service depends on
// the interface, not on this package.
package verifier

import (
	"context"
	"errors"

	"google.golang.org/api/idtoken"
)

// Google validates Google ID tokens against the configured OAuth client id.
type Google struct {
	ClientID string
}

func NewGoogle(clientID string) *Google { return &Google{ClientID: clientID} }

// Verify checks the token's signature and audience with Google and returns
// the verified email and display name claims.
func (g *Google) Verify(ctx context.Context, identityToken string) (string, string, error) {
	payload, err := idtoken.Validate(ctx, identityToken, g.ClientID)
	if err != nil {
		return "", "", err
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		return "", "", errors.New("verifier: token has no email claim")
	}
	return email, name, nil
}
