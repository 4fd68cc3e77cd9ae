package handlers

import (
	"net/http"
	"strings"

	"github.com/AnokSystem/anok-pedido-flow/auth"
	"github.com/AnokSystem/anok-pedido-flow/httpx"
	"github.com/AnokSystem/anok-pedido-flow/internal/services"
	"github.com/AnokSystem/anok-pedido-flow/validation"
)

const minPasswordLength = 8

type AuthHandler struct {
	users *services.UserService
}

func NewAuthHandler(users *services.UserService) *AuthHandler {
	return &AuthHandler{users: users}
}

type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name" validate:"max=255"`
}

// readCredentials accepts a JSON body or a classic form post.
func readCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var in credentials
	if httpx.IsJSON(r) {
		if !decodeJSON(w, r, &in) {
			return in, false
		}
	} else {
		in.Email = r.FormValue("email")
		in.Password = r.FormValue("password")
		in.Name = r.FormValue("name")
	}
	in.Email = strings.TrimSpace(in.Email)
	return in, true
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	in, ok := readCredentials(w, r)
	if !ok {
		return
	}
	v := validation.Struct(in)
	validation.MinLength("password", in.Password, minPasswordLength, v)
	if invalid(w, r, v) {
		return
	}
	user, err := h.users.Signup(r.Context(), in.Email, in.Password, in.Name)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	in, ok := readCredentials(w, r)
	if !ok {
		return
	}
	v := validation.Violations{}
	validation.Required("email", in.Email, v)
	validation.Required("password", in.Password, v)
	if invalid(w, r, v) {
		return
	}
	user, err := h.users.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}
