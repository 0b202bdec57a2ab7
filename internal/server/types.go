package server

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the JSON body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// MessageResponse carries informational outcomes, such as a duplicate
// collaborator grant.
type MessageResponse struct {
	Message string `json:"message"`
}

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type resetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

type createListRequest struct {
	ListName string `json:"list_name" binding:"required"`
}

type taskRequest struct {
	TaskName string `json:"task_name" binding:"required"`
	Priority string `json:"priority" binding:"required,priority"`
	Deadline string `json:"deadline" binding:"required"`
}

type toggleRequest struct {
	IsChecked *bool `json:"is_checked" binding:"required"`
}

type addCollaboratorRequest struct {
	Email string `json:"collaborator_email" binding:"required,email"`
}

func init() {
	// The binding layer rejects unknown priorities before the store sees
	// them; the store re-checks anyway for non-HTTP callers.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
			switch fl.Field().String() {
			case "high", "medium", "low":
				return true
			}
			return false
		})
	}
}
