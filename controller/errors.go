package controller

import (
	"errors"
	"fmt"
)

const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgEmailTaken         = "Email already registered"
	MsgOwnerRegistered    = "Registration successful! Please login."
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrNoLocator        = errors.New("location detection is not available")
)

// AuthError is a rejected login or registration. Message is meant for the
// form it was submitted from.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NetworkError is any other failed request. The state from before the
// request is kept.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

func IsAuth(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

func IsNetwork(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}
