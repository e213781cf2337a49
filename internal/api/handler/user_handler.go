package handler

import (
	"github.com/gin-gonic/gin"

	"natesa/backend/internal/dto"
	"natesa/backend/internal/service"
	"natesa/backend/pkg/response"
)

// UserHandler user endpoints
type UserHandler struct {
	userSvc service.UserService
}

// NewUserHandler creates a UserHandler
func NewUserHandler(userSvc service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers scoped user list
// GET /users
func (h *UserHandler) ListUsers(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		badBody(c, err)
		return
	}

	users, total, err := h.userSvc.List(c.Request.Context(), caller, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OKPage(c, users, total, req.GetPage(), req.GetPageSize())
}

// GetUser single user
// GET /users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := h.userSvc.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, user)
}

// CreateUser registration when anonymous, user creation when signed in
// POST /create_user
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	user, err := h.userSvc.Create(c.Request.Context(), Identity(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Created(c, user)
}

// UpdateUser sparse update
// PATCH /users/:id, PUT /update_user/:id
func (h *UserHandler) UpdateUser(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	user, err := h.userSvc.Update(c.Request.Context(), caller, id, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, user)
}

// DeleteUser
// DELETE /users/:id, /delete_user/:id
func (h *UserHandler) DeleteUser(c *gin.Context) {
	caller, ok := MustGetIdentity(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := h.userSvc.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, err)
		return
	}
	response.OK(c, dto.DeleteResponse{ID: id, Deleted: true, Entity: "user"})
}
