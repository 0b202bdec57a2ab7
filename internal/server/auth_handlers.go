package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"dooby/internal/auth"
	"dooby/internal/store"
)

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleSignup handles POST /signup. Creating the account also creates the
// user's default list.
func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	taken, err := s.store.UserExists(req.Name, req.Email)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if taken {
		c.JSON(http.StatusConflict, ErrorResponse{
			Error: "Username or email already taken. Please try again.",
			Code:  "ALREADY_EXISTS",
		})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	userID, err := s.store.CreateUser(req.Name, req.Email, hash)
	if err != nil {
		respondStoreError(c, err)
		return
	}

	s.logger.Info("user signed up", zap.Int64("user_id", userID))
	c.JSON(http.StatusCreated, gin.H{"user_id": userID})
}

// handleLogin handles POST /login.
func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := s.store.GetUserByName(req.Name)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Username not found.", Code: "BAD_CREDENTIALS"})
		return
	}
	if err != nil {
		respondStoreError(c, err)
		return
	}

	if !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Incorrect password.", Code: "BAD_CREDENTIALS"})
		return
	}

	token, err := s.tokens.MintSession(user.ID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	setSessionCookie(c, token, int(s.tokens.SessionTTL().Seconds()))

	c.JSON(http.StatusOK, gin.H{
		"user_id": user.ID,
		"name":    user.Name,
		"email":   user.Email,
	})
}

// handleLogout handles POST /logout.
func (s *Server) handleLogout(c *gin.Context) {
	setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, MessageResponse{Message: "You have been logged out."})
}

// handleForgotPassword handles POST /forgot-password. The reset token is
// returned in the body; there is no mail delivery, mirroring the app's
// show-the-link-on-a-page behavior.
func (s *Server) handleForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if _, err := s.store.GetUserByEmail(req.Email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Email not found.", Code: "NOT_FOUND"})
			return
		}
		respondStoreError(c, err)
		return
	}

	token, err := s.tokens.MintPasswordReset(req.Email)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reset_token": token})
}

// handleResetPassword handles POST /reset-password.
func (s *Server) handleResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	email, err := s.tokens.VerifyPasswordReset(req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid or expired reset link.", Code: "BAD_TOKEN"})
		return
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if err := s.store.UpdatePassword(email, hash); err != nil {
		respondStoreError(c, err)
		return
	}

	s.logger.Info("password reset", zap.String("email", email))
	c.JSON(http.StatusOK, MessageResponse{Message: "Password reset successful!"})
}

// handleProfile handles GET /me.
func (s *Server) handleProfile(c *gin.Context) {
	user, err := s.store.GetUserByID(currentUser(c))
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// handleUpdateProfile handles PUT /me. Empty fields are left untouched.
func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	hash := ""
	if req.Password != "" {
		h, err := auth.HashPassword(req.Password)
		if err != nil {
			respondStoreError(c, err)
			return
		}
		hash = h
	}

	if err := s.store.UpdateProfile(currentUser(c), req.Name, req.Email, hash); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Profile updated successfully!"})
}
