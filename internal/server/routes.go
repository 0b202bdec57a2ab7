package server

// registerRoutes registers every endpoint with the router.
//
//	POST /signup            create account + default list
//	POST /login             verify credentials, set session cookie
//	POST /logout            clear session cookie
//	GET  /healthz           liveness
//	POST /forgot-password   issue a password-reset token
//	POST /reset-password    redeem a reset token
//
// Authenticated:
//
//	GET  /me                            profile
//	PUT  /me                            partial profile update
//	GET  /lists                         accessible lists
//	POST /lists                         create list
//	GET  /lists/:id/tasks               tasks, ?sort=&order= lenient
//	POST /lists/:id/tasks               add task
//	GET  /lists/:id/collaborators       list members
//	POST /lists/:id/collaborators       add member by email (owner only)
//	DELETE /lists/:id/collaborators/:userID  remove member (owner only)
//	PUT  /tasks/:id                     edit task
//	DELETE /tasks/:id                   soft delete
//	POST /tasks/:id/undo                undo soft delete
//	POST /tasks/:id/toggle              set checked flag
func (s *Server) registerRoutes() {
	s.router.GET("/healthz", s.handleHealth)

	s.router.POST("/signup", s.handleSignup)
	s.router.POST("/login", s.handleLogin)
	s.router.POST("/logout", s.handleLogout)
	s.router.POST("/forgot-password", s.handleForgotPassword)
	s.router.POST("/reset-password", s.handleResetPassword)

	authed := s.router.Group("/", s.requireAuth())
	{
		authed.GET("/me", s.handleProfile)
		authed.PUT("/me", s.handleUpdateProfile)

		authed.GET("/lists", s.handleLists)
		authed.POST("/lists", s.handleCreateList)
		authed.GET("/lists/:id/tasks", s.handleTasks)
		authed.POST("/lists/:id/tasks", s.handleAddTask)
		authed.GET("/lists/:id/collaborators", s.handleCollaborators)
		authed.POST("/lists/:id/collaborators", s.handleAddCollaborator)
		authed.DELETE("/lists/:id/collaborators/:userID", s.handleRemoveCollaborator)

		authed.PUT("/tasks/:id", s.handleEditTask)
		authed.DELETE("/tasks/:id", s.handleDeleteTask)
		authed.POST("/tasks/:id/undo", s.handleUndoDelete)
		authed.POST("/tasks/:id/toggle", s.handleToggleTask)
	}
}
