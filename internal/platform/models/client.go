package models

// Client is an API consumer authenticating with a client id and secret.
type Client struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	SecretHash string   `json:"-"`
	Scopes     []string `json:"scopes"` // JSON array in DB
	LastUsedAt *int64   `json:"last_used_at,omitempty"`
	CreatedAt  int64    `json:"created_at"`
	RevokedAt  *int64   `json:"revoked_at,omitempty"`
}

func (c *Client) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}
