package auth

import "errors"

var (
	InvalidCredentialsErr = errors.New("invalid credentials")
	PrincipalExistsErr    = errors.New("principal already exists")
	InvalidRoleErr        = errors.New("invalid role")
)
