// Package account creates new user records.
package account

import (
	"context"
	"errors"
	"slices"
	"strings"

	"ddns53/internal/model"
	"ddns53/internal/password"
	"ddns53/internal/resperr"
	"ddns53/internal/store"
)

const minCredentialLength = 7

type CreateUserRequest struct {
	Username string   `json:"username"`
	Password string   `json:"password"`
	Domains  []string `json:"domains"`
}

type Provisioner struct {
	users store.UserStore
}

func NewProvisioner(users store.UserStore) *Provisioner {
	return &Provisioner{users: users}
}

// Create validates the request, hashes the password and stores the user.
// Validation runs every check and reports all violations together; only after
// it passes do we look for a duplicate username.
func (p *Provisioner) Create(ctx context.Context, req CreateUserRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	_, err := p.users.GetUser(ctx, req.Username)
	if err == nil {
		return resperr.UserExists(req.Username)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return resperr.Store(err)
	}

	hash, err := password.Hash(req.Password)
	if err != nil {
		return resperr.Hash(err)
	}

	user := model.User{
		Username:     req.Username,
		PasswordHash: hash,
		Domains:      dedupe(req.Domains),
	}
	if err := p.users.PutUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrExists) {
			// Lost the race with a concurrent create of the same username.
			return resperr.UserExists(req.Username)
		}
		return resperr.Store(err)
	}
	return nil
}

func validate(req CreateUserRequest) error {
	var errs resperr.Errors

	if req.Username == "" {
		errs.Add(resperr.MissingField("username"))
	} else {
		if len(req.Username) < minCredentialLength {
			errs.Add(resperr.InvalidField("username", "is less than 7 characters long"))
		}
		if strings.Contains(req.Username, ":") {
			errs.Add(resperr.InvalidField("username", "contains a colon (:)"))
		}
	}

	if req.Password == "" {
		errs.Add(resperr.MissingField("password"))
	} else if len(req.Password) < minCredentialLength {
		errs.Add(resperr.InvalidField("password", "is less than 7 characters long"))
	}

	if len(req.Domains) == 0 {
		errs.Add(resperr.MissingField("domains"))
	}

	return errs.Err()
}

func dedupe(domains []string) []string {
	var out []string
	for _, d := range domains {
		if !slices.Contains(out, d) {
			out = append(out, d)
		}
	}
	return out
}
