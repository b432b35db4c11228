package auth

import "strings"

// IncomingCredential is what a request presents, independent of whether it arrived
// in the Authorization header or the request body.
type IncomingCredential struct {
	Username     string
	PrincipalID  string
	AccessToken  string
	RefreshToken string
}

func (c IncomingCredential) HasAccessToken() bool {
	return strings.TrimSpace(c.AccessToken) != ""
}

func (c IncomingCredential) HasRefreshToken() bool {
	return strings.TrimSpace(c.RefreshToken) != ""
}
