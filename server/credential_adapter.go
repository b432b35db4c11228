package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-session-server/auth"
)

const maxBodyBytes = 1 << 20

// credentialBody is the JSON request shape accepted by the account routes
type credentialBody struct {
	Username           string `json:"username"`
	Password           string `json:"password"`
	UserID             string `json:"userId"`
	AccessToken        string `json:"accessToken"`
	RefreshAccessToken string `json:"refreshAccessToken"`
}

// decodeBody reads the optional JSON body. An empty body decodes to the zero value.
func decodeBody(r *http.Request) (credentialBody, error) {
	var body credentialBody
	if r.Body == nil || r.Body == http.NoBody {
		return body, nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		return credentialBody{}, fmt.Errorf("[decodeBody] %w", err)
	}
	return body, nil
}

// BearerToken returns the token from the Authorization header.
// Both "Bearer <token>" and the raw token are accepted.
func BearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if h == "" {
		return ""
	}
	if scheme, rest, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(rest)
	}
	return h
}

// credentialFrom merges the header token with the body fields. The header wins over body.accessToken.
func credentialFrom(r *http.Request, body credentialBody) auth.IncomingCredential {
	cred := auth.IncomingCredential{
		Username:     strings.TrimSpace(body.Username),
		PrincipalID:  strings.TrimSpace(body.UserID),
		AccessToken:  strings.TrimSpace(body.AccessToken),
		RefreshToken: strings.TrimSpace(body.RefreshAccessToken),
	}
	if t := BearerToken(r); t != "" {
		cred.AccessToken = t
	}
	return cred
}

// CredentialFromRequest extracts the incoming credential from the Authorization header and JSON body
func CredentialFromRequest(r *http.Request) (auth.IncomingCredential, error) {
	body, err := decodeBody(r)
	if err != nil {
		return auth.IncomingCredential{}, err
	}
	return credentialFrom(r, body), nil
}
