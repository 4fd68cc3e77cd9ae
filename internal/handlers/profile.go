package handlers

import (
	"net/http"

	"github.com/AnokSystem/anok-pedido-flow/httpx"
	"github.com/AnokSystem/anok-pedido-flow/internal/services"
	"github.com/AnokSystem/anok-pedido-flow/validation"
)

type ProfileHandler struct {
	users *services.UserService
}

func NewProfileHandler(users *services.UserService) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Get(r.Context(), currentUser(r))
	if err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

type profileInput struct {
	Name  string `json:"name" validate:"max=255"`
	Email string `json:"email" validate:"required,email"`
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in profileInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if invalid(w, r, validation.Struct(in)) {
		return
	}
	user, err := h.users.UpdateProfile(r.Context(), currentUser(r), in.Name, in.Email)
	if err != nil {
		serviceError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

type passwordInput struct {
	Current string `json:"current_password" validate:"required"`
	New     string `json:"new_password" validate:"required,min=8"`
	Confirm string `json:"confirm_password" validate:"required"`
}

// ChangePassword requires the current password and a confirmed new one.
func (h *ProfileHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in passwordInput
	if !decodeJSON(w, r, &in) {
		return
	}
	v := validation.Struct(in)
	if in.Confirm != "" && in.Confirm != in.New {
		v.Add("confirm_password", "mismatch")
	}
	if invalid(w, r, v) {
		return
	}
	if err := h.users.ChangePassword(r.Context(), currentUser(r), in.Current, in.New); err != nil {
		serviceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
