package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mavericklabs/sparks-files/internal/services/repository"
)

type UsersController struct {
	repo repository.Repository
	log  *zap.SugaredLogger
}

func NewUsersController(repo repository.Repository, log *zap.SugaredLogger) *UsersController {
	return &UsersController{
		repo: repo,
		log:  log,
	}
}

type UserRequest struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name" binding:"required"`
}

func (c *UsersController) CreateUser(ctx *gin.Context) {
	var req UserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "email and name are required"})
		return
	}

	user := repository.NewUser(req.Email, req.Name)
	if err := c.repo.CreateUser(ctx, &user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "user already exists"})
			return
		}
		c.log.With("err", err).Error("failed to create user")
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

func (c *UsersController) ListUsers(ctx *gin.Context) {
	users, err := c.repo.FindUsers(ctx, ctx.Query("search"))
	if err != nil {
		c.log.With("err", err).Error("failed to list users")
		ctx.Status(http.StatusInternalServerError)
		return
	}

	if users == nil {
		users = []repository.User{}
	}
	ctx.JSON(http.StatusOK, users)
}

func (c *UsersController) GetUser(ctx *gin.Context) {
	user, err := c.repo.GetUser(ctx, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.log.With("err", err).Error("failed to get user")
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

func (c *UsersController) UpdateUser(ctx *gin.Context) {
	var req UserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "email and name are required"})
		return
	}

	id := ctx.Param("id")
	if err := c.repo.UpdateUser(ctx, id, req.Email, req.Name); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.log.With("err", err).Error("failed to update user")
		ctx.Status(http.StatusInternalServerError)
		return
	}

	user, err := c.repo.GetUser(ctx, id)
	if err != nil {
		c.log.With("err", err).Error("failed to reload user")
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.JSON(http.StatusOK, user)
}

func (c *UsersController) DeleteUser(ctx *gin.Context) {
	if err := c.repo.DeleteUser(ctx, ctx.Param("id")); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.log.With("err", err).Error("failed to delete user")
		ctx.Status(http.StatusInternalServerError)
		return
	}

	ctx.Status(http.StatusOK)
}
