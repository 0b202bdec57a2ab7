package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"dooby/internal/store"
)

// handleLists handles GET /lists: every list the user owns or collaborates
// on, plus the user's default list id when one exists.
func (s *Server) handleLists(c *gin.Context) {
	userID := currentUser(c)

	lists, err := s.store.ListAccessibleLists(userID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if lists == nil {
		lists = []store.ListSummary{}
	}

	resp := gin.H{"lists": lists}
	if defaultID, err := s.store.ResolveDefaultList(userID); err == nil {
		resp["default_list_id"] = defaultID
	} else if !errors.Is(err, store.ErrNotFound) {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// handleCreateList handles POST /lists.
func (s *Server) handleCreateList(c *gin.Context) {
	var req createListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	listID, err := s.store.CreateList(currentUser(c), req.ListName)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"list_id": listID})
}

// handleCollaborators handles GET /lists/:id/collaborators. Readable by
// anyone with access to the list.
func (s *Server) handleCollaborators(c *gin.Context) {
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}

	access, err := s.store.HasListAccess(currentUser(c), listID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if !access {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "You do not have access to this list.", Code: "ACCESS_DENIED"})
		return
	}

	collaborators, err := s.store.ListCollaborators(listID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if collaborators == nil {
		collaborators = []store.Collaborator{}
	}
	c.JSON(http.StatusOK, gin.H{"collaborators": collaborators})
}

// handleAddCollaborator handles POST /lists/:id/collaborators. A duplicate
// grant is an informational outcome, not an error.
func (s *Server) handleAddCollaborator(c *gin.Context) {
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req addCollaboratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := s.store.AddCollaborator(currentUser(c), listID, req.Email)
	if errors.Is(err, store.ErrAlreadyExists) {
		c.JSON(http.StatusOK, MessageResponse{Message: "User is already a collaborator."})
		return
	}
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MessageResponse{Message: "Added collaborator: " + req.Email})
}

// handleRemoveCollaborator handles DELETE /lists/:id/collaborators/:userID.
func (s *Server) handleRemoveCollaborator(c *gin.Context) {
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}
	collaboratorID, ok := pathID(c, "userID")
	if !ok {
		return
	}

	if err := s.store.RemoveCollaborator(currentUser(c), listID, collaboratorID); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Collaborator removed successfully."})
}
