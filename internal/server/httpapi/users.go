package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/getgranularity/backend/internal/common"
	"github.com/getgranularity/backend/internal/logging"
	"github.com/getgranularity/backend/internal/server/models"
)

// UserAuthService is the slice of the user service used by these handlers.
type UserAuthService interface {
	UserResolver
	SignUp(ctx context.Context, firstName, lastName, email, password string) (*models.User, string, error)
	SignIn(ctx context.Context, email, password string) (*models.User, string, error)
}

type userHandlers struct {
	users  UserAuthService
	logger logging.Logger
}

type signUpRequest struct {
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authPayload is the signup/signin success body.
type authPayload struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (h *userHandlers) signUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	switch {
	case req.FirstName == "":
		respondError(c, http.StatusBadRequest, msgFirstNameRequired)
		return
	case req.LastName == "":
		respondError(c, http.StatusBadRequest, msgLastNameRequired)
		return
	case req.Email == "":
		respondError(c, http.StatusBadRequest, msgEmailRequired)
		return
	case req.Password == "":
		respondError(c, http.StatusBadRequest, msgPasswordRequired)
		return
	case req.ConfirmPassword == "":
		respondError(c, http.StatusBadRequest, msgConfirmRequired)
		return
	case req.Password != req.ConfirmPassword:
		respondError(c, http.StatusBadRequest, msgPasswordMismatch)
		return
	}

	user, token, err := h.users.SignUp(c.Request.Context(), req.FirstName, req.LastName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			respondError(c, http.StatusBadRequest, msgEmailExists)
			return
		}
		h.logger.Error(c.Request.Context(), "POST /v1/users/signup", "error", err.Error())
		respondError(c, http.StatusInternalServerError, msgInternalError)
		return
	}

	respondData(c, authPayload{User: user, Token: token})
}

func (h *userHandlers) signIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, msgInvalidRequest)
		return
	}

	switch {
	case req.Email == "":
		respondError(c, http.StatusBadRequest, msgEmailRequired)
		return
	case req.Password == "":
		respondError(c, http.StatusBadRequest, msgPasswordRequired)
		return
	}

	user, token, err := h.users.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			respondError(c, http.StatusBadRequest, msgEmailUnknown)
		case errors.Is(err, common.ErrorUnauthenticated):
			respondError(c, http.StatusForbidden, msgWrongPassword)
		default:
			h.logger.Error(c.Request.Context(), "POST /v1/users/signin", "error", err.Error())
			respondError(c, http.StatusInternalServerError, msgInternalError)
		}
		return
	}

	respondData(c, authPayload{User: user, Token: token})
}

func (h *userHandlers) current(c *gin.Context) {
	respondData(c, currentUser(c))
}
