// Package httpapi exposes the JSON HTTP surface of the backend: user
// signup/signin, the current-user endpoint, and the file lifecycle routes.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Messages surfaced to clients. The exact wording is part of the API
// contract relied on by the frontend.
const (
	msgInternalError  = "Something went wrong."
	msgInvalidRequest = "Invalid Request."
	msgInvalidToken   = "Invalid Token."
	msgUserGone       = "Access denied. User does not exist."

	msgFirstNameRequired = "First name is required."
	msgLastNameRequired  = "Last name is required."
	msgEmailRequired     = "Email is required."
	msgPasswordRequired  = "Password is required."
	msgConfirmRequired   = "Confirm password is required."
	msgPasswordMismatch  = "Passwords do not match."
	msgEmailExists       = "User with email already exists. Please sign in."
	msgEmailUnknown      = "User with email does not exist. Please check your credentials and try again."
	msgWrongPassword     = "Incorrect password. Please try again."

	msgIDRequired  = "Id is required."
	msgFileMissing = "File does not exist."
	msgFileCreated = "File uploaded successfully."
	msgFileUpdated = "File updated successfully."
	msgFileDeleted = "File deleted successfully."
)

// response is the envelope returned on every route.
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respondData(c *gin.Context, data any) {
	c.JSON(http.StatusOK, response{Success: true, Data: data})
}

func respondMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, response{Success: true, Message: message})
}

func respondError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, response{Success: false, Message: message})
}
