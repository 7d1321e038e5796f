package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/worldwide-social/worldwide/internal/auth"
	"github.com/worldwide-social/worldwide/internal/logger"
	"github.com/worldwide-social/worldwide/internal/models"
	"github.com/worldwide-social/worldwide/internal/util"
	"go.uber.org/zap"
)

// Register creates a new account and returns a session token
func (h *Handlers) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	resp, err := h.authSvc.Register(req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameExists):
			util.RespondConflict(c, "username")
		default:
			logger.Log.Error("Registration failed", zap.Error(err))
			util.RespondInternalError(c)
		}
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// Login authenticates with username/password and returns a session token
func (h *Handlers) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	resp, err := h.authSvc.Login(req)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrNoPassword):
			util.RespondUnauthorized(c, "invalid credentials")
		default:
			logger.Log.Error("Login failed", zap.Error(err))
			util.RespondInternalError(c)
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Me returns the authenticated account
func (h *Handlers) Me(c *gin.Context) {
	user, ok := util.GetUserFromContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetAccounts lists every account on this device's roster plus the
// active one.
func (h *Handlers) GetAccounts(c *gin.Context) {
	var users []models.User
	if err := h.db.Order("created_at ASC").Find(&users).Error; err != nil {
		util.HandleDBError(c, err, "accounts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts":  users,
		"active_id": h.state.ActiveAccountID(),
	})
}

// SwitchAccount makes another roster account the active one and issues a
// token for it. The interest map and feed ordering follow the switch.
func (h *Handlers) SwitchAccount(c *gin.Context) {
	var req struct {
		AccountID string `json:"account_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.RespondBadRequest(c, err.Error())
		return
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", req.AccountID).Error; err != nil {
		util.HandleDBError(c, err, "account")
		return
	}

	if err := h.state.SetActiveAccountID(user.ID); err != nil {
		logger.Log.Error("Failed to persist active account", zap.Error(err))
		util.RespondInternalError(c)
		return
	}

	resp, err := h.authSvc.TokenForUser(&user)
	if err != nil {
		logger.Log.Error("Failed to issue token on account switch", zap.Error(err))
		util.RespondInternalError(c)
		return
	}

	c.JSON(http.StatusOK, resp)
}
