package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"dooby/internal/store"
)

// pathID parses an integer path parameter. Reports the error itself and
// returns ok=false so handlers can bail with a plain return.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid " + name + " parameter.", Code: "INVALID_REQUEST"})
		return 0, false
	}
	return id, true
}

// handleTasks handles GET /lists/:id/tasks. Unknown sort/order values fall
// back to defaults inside the store rather than erroring.
func (s *Server) handleTasks(c *gin.Context) {
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}

	sort := c.DefaultQuery("sort", "created_at")
	order := c.DefaultQuery("order", "desc")

	tasks, err := s.store.GetTasks(currentUser(c), listID, sort, order)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if tasks == nil {
		tasks = []store.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks, "list_id": listID})
}

// handleAddTask handles POST /lists/:id/tasks.
func (s *Server) handleAddTask(c *gin.Context) {
	listID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	taskID, err := s.store.AddTask(currentUser(c), listID, req.TaskName, req.Priority, req.Deadline)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"task_id": taskID, "list_id": listID})
}

// handleEditTask handles PUT /tasks/:id.
func (s *Server) handleEditTask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req taskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := s.store.EditTask(currentUser(c), taskID, req.TaskName, req.Priority, req.Deadline); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Task updated."})
}

// handleDeleteTask handles DELETE /tasks/:id. The task's list id comes back
// in the body so clients can stay on the same list view and offer undo.
func (s *Server) handleDeleteTask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := s.store.GetTask(taskID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if err := s.store.DeleteTask(taskID); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task deleted!", "task_id": taskID, "list_id": task.ListID})
}

// handleUndoDelete handles POST /tasks/:id/undo.
func (s *Server) handleUndoDelete(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := s.store.GetTask(taskID)
	if err != nil {
		respondStoreError(c, err)
		return
	}
	if err := s.store.UndoDelete(taskID); err != nil {
		respondStoreError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Task restored.", "task_id": taskID, "list_id": task.ListID})
}

// handleToggleTask handles POST /tasks/:id/toggle.
func (s *Server) handleToggleTask(c *gin.Context) {
	taskID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req toggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if _, err := s.store.GetTask(taskID); err != nil {
		respondStoreError(c, err)
		return
	}
	if err := s.store.ToggleTask(taskID, *req.IsChecked); err != nil {
		respondStoreError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
