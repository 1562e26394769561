package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ddns53/internal/account"
	"ddns53/internal/resperr"
)

type fakeProvisioner struct {
	req  account.CreateUserRequest
	err  error
	hits int
}

func (f *fakeProvisioner) Create(_ context.Context, req account.CreateUserRequest) error {
	f.hits++
	f.req = req
	return f.err
}

func doCreate(t *testing.T, p Provisioner, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	w := httptest.NewRecorder()
	NewUserHandler(p).Create(w, r)
	return w
}

func TestCreateUserSuccess(t *testing.T) {
	p := &fakeProvisioner{}
	w := doCreate(t, p, `{"username":"alice1234","password":"secret99","domains":["alice.example.com"]}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Empty(t, w.Body.String())

	require.Equal(t, 1, p.hits)
	assert.Equal(t, "alice1234", p.req.Username)
	assert.Equal(t, []string{"alice.example.com"}, p.req.Domains)
}

func TestCreateUserBadJSON(t *testing.T) {
	p := &fakeProvisioner{}
	w := doCreate(t, p, `{"username":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "could not parse request body")
	assert.Zero(t, p.hits)
}

func TestCreateUserValidationErrorsPassThrough(t *testing.T) {
	var errs resperr.Errors
	errs.Add(resperr.InvalidField("username", "is less than 7 characters long"))
	errs.Add(resperr.MissingField("password"))
	errs.Add(resperr.MissingField("domains"))

	p := &fakeProvisioner{err: errs.Err()}
	w := doCreate(t, p, `{"username":"ab"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "username")
	assert.Contains(t, body, "password")
	assert.Contains(t, body, "domains")
}

func TestCreateUserDuplicate(t *testing.T) {
	p := &fakeProvisioner{err: resperr.UserExists("alice1234")}
	w := doCreate(t, p, `{"username":"alice1234","password":"secret99","domains":["alice.example.com"]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}
