package hipchat

import (
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// ClientCredentialsConfig builds an OAuth2 client-credentials config from
// the token URL advertised in the capability document.
func (c *Client) ClientCredentialsConfig(ctx context.Context, clientID, clientSecret string, scopes ...string) (*clientcredentials.Config, error) {
	if _, err := c.Capabilities(ctx); err != nil {
		return nil, fmt.Errorf("fetch capabilities: %w", err)
	}
	c.capsMu.Lock()
	raw := c.capsRaw
	c.capsMu.Unlock()

	tokenURL := gjson.GetBytes(raw, "capabilities.oauth2Provider.tokenUrl").String()
	if tokenURL == "" {
		return nil, errors.New("capabilities document has no oauth2 token url")
	}
	return &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Scopes:       scopes,
		TokenURL:     tokenURL,
	}, nil
}

// SetTokenSource fetches a token from ts, installs it as the credential and
// returns it.
func (c *Client) SetTokenSource(ts oauth2.TokenSource) (*oauth2.Token, error) {
	tok, err := ts.Token()
	if err != nil {
		return nil, fmt.Errorf("fetch oauth2 token: %w", err)
	}
	c.SetAuth(tok.AccessToken, tok.Type())
	return tok, nil
}
