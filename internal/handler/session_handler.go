package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/parceldesk/booking-gateway/internal/domain/booking"
	"github.com/parceldesk/booking-gateway/internal/session"
	"github.com/parceldesk/booking-gateway/internal/web"
)

// SessionHandler manages the two role-scoped session slots.
type SessionHandler struct {
	store session.Store
	now   func() time.Time
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(store session.Store) *SessionHandler {
	return &SessionHandler{store: store, now: time.Now}
}

// RegisterRoutes registers all session routes on the given router group.
func (h *SessionHandler) RegisterRoutes(r *gin.RouterGroup) {
	sessions := r.Group("/api/v1/session")
	{
		sessions.PUT("/:role", h.Put)
		sessions.GET("/:role", h.Get)
		sessions.DELETE("/:role", h.Delete)
	}
}

// sessionView is what session endpoints return. The raw token is never
// echoed back.
type sessionView struct {
	Role        booking.Role `json:"role"`
	DisplayName string       `json:"displayName,omitempty"`
	Email       string       `json:"email,omitempty"`
	ExpiresAt   *time.Time   `json:"expiresAt,omitempty"`
}

func viewOf(sess session.Session) sessionView {
	v := sessionView{Role: sess.Role, DisplayName: sess.DisplayName, Email: sess.Email}
	if !sess.ExpiresAt.IsZero() {
		v.ExpiresAt = &sess.ExpiresAt
	}
	return v
}

// Put handles PUT /api/v1/session/:role. Stores the bearer token for one
// role slot; a token that is already expired is rejected up front.
func (h *SessionHandler) Put(c *gin.Context) {
	role, ok := roleParam(c)
	if !ok {
		return
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		web.BadRequest(c, "invalid session request")
		return
	}

	sess, err := session.FromToken(role, body.Token)
	if err != nil {
		web.BadRequest(c, err.Error())
		return
	}
	if sess.Expired(h.now()) {
		web.BadRequest(c, "token is already expired")
		return
	}

	if err := h.store.Put(c.Request.Context(), sess); err != nil {
		web.Error(c, err)
		return
	}

	web.SuccessMessage(c, "session stored", viewOf(sess))
}

// Get handles GET /api/v1/session/:role.
func (h *SessionHandler) Get(c *gin.Context) {
	role, ok := roleParam(c)
	if !ok {
		return
	}

	sess, found, err := h.store.Get(c.Request.Context(), role)
	if err != nil {
		web.Error(c, err)
		return
	}
	if !found || sess.Expired(h.now()) {
		c.JSON(http.StatusNotFound, web.Envelope{Success: false, Message: "no active session for this role"})
		return
	}

	web.Success(c, viewOf(sess))
}

// Delete handles DELETE /api/v1/session/:role. Deleting an empty slot is a
// no-op and still succeeds.
func (h *SessionHandler) Delete(c *gin.Context) {
	role, ok := roleParam(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), role); err != nil {
		web.Error(c, err)
		return
	}

	web.SuccessMessage(c, "session cleared", nil)
}

// roleParam reads the role path segment, accepting any letter case.
func roleParam(c *gin.Context) (booking.Role, bool) {
	role, ok := booking.ParseRole(strings.ToUpper(c.Param("role")))
	if !ok {
		web.BadRequest(c, "invalid role")
		return "", false
	}
	return role, true
}
