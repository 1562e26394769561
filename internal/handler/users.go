// Package handler adapts HTTP requests to the update and provisioning flows.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"ddns53/internal/account"
	"ddns53/internal/resperr"
)

// Provisioner validates and creates a user account.
type Provisioner interface {
	Create(ctx context.Context, req account.CreateUserRequest) error
}

type UserHandler struct {
	accounts Provisioner
}

func NewUserHandler(accounts Provisioner) *UserHandler {
	return &UserHandler{accounts: accounts}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req account.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resperr.Write(w, resperr.ParseBody(err))
		return
	}

	if err := h.accounts.Create(r.Context(), req); err != nil {
		resperr.Write(w, err)
		return
	}

	log.WithField("username", req.Username).Info("user created")
	w.WriteHeader(http.StatusCreated)
}
