package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"account-portal/internal/domain"
	"account-portal/internal/service"
	"account-portal/internal/session"
	"account-portal/internal/validate"
)

const greeting = "Welcome to the account registration generator!"

// response keys shared across handlers
const (
	keyErrorMessages = "errorMessages"
	keyErrorMessage  = "errorMessage"
	keySuccess       = "successMessage"
	keyQuestions     = "questions"
	keyUsers         = "users"
	keyWelcomeName   = "welcomeName"
)

const (
	msgRegistered    = "You have registered successfully"
	msgPasswordReset = "password restored successfully"
	msgAccessDenied  = "access denied"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth       service.AuthService
	admin      service.AdminService
	sessions   *session.Store
	cookieName string
}

func NewHandler(auth service.AuthService, admin service.AdminService, sessions *session.Store, cookieName string) *Handler {
	return &Handler{
		auth:       auth,
		admin:      admin,
		sessions:   sessions,
		cookieName: cookieName,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/", h.home)
	router.GET("/register", h.showRegister)
	router.POST("/register", h.register)
	router.GET("/login", h.showLogin)
	router.POST("/login", h.login)
	router.GET("/logout", h.logout)
	router.GET("/forgot-password", h.showForgotPassword)
	router.POST("/forgot-password", h.forgotPassword)
	router.GET("/reset-password", h.showResetPassword)
	router.POST("/reset-password", h.resetPassword)
	router.GET("/reset-password-successful", h.resetPasswordSuccessful)

	admin := router.Group("/admin")
	{
		admin.GET("/users", h.listUsers)
		admin.POST("/users", h.manageUser)
	}
}

// Recovery returns the outermost safety net: any panic escaping a handler is
// rendered as a generic error payload carrying the fault's message.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			keyErrorMessage: fmt.Sprint(recovered),
		})
	})
}

func (h *Handler) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"greeting": greeting})
}

func (h *Handler) showRegister(c *gin.Context) {
	h.renderQuestionForm(c)
}

func (h *Handler) register(c *gin.Context) {
	form := validate.RegisterForm{
		Email:           c.PostForm("email"),
		Username:        c.PostForm("username"),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirmPassword"),
		FirstQuestion:   c.PostForm("firstQuestion"),
		FirstAnswer:     c.PostForm("firstAnswer"),
		SecondQuestion:  c.PostForm("secondQuestion"),
		SecondAnswer:    c.PostForm("secondAnswer"),
	}

	errs, err := h.auth.Register(c.Request.Context(), form)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{keyErrorMessage: err.Error()})
		return
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{keyErrorMessages: errs})
		return
	}

	c.JSON(http.StatusOK, gin.H{keySuccess: msgRegistered})
}

// showLogin renders the login form for anonymous visitors; an active session
// skips straight to its landing payload, admin or user depending on role.
func (h *Handler) showLogin(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	if user.Role == domain.RoleAdmin {
		h.renderUserList(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{keyWelcomeName: user.Username})
}

func (h *Handler) login(c *gin.Context) {
	user, err := h.auth.Login(c.Request.Context(), c.PostForm("email"), c.PostForm("password"))
	if err != nil {
		if errors.Is(err, service.ErrEmailNotFound) || errors.Is(err, service.ErrIncorrectPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{keyErrorMessage: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{keyErrorMessage: err.Error()})
		return
	}

	h.setSession(c, session.State{Authenticated: true, UserID: user.ID})

	if user.Role == domain.RoleAdmin {
		h.renderUserList(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{keyWelcomeName: user.Username})
}

func (h *Handler) logout(c *gin.Context) {
	if id, err := c.Cookie(h.cookieName); err == nil {
		h.sessions.Destroy(id)
	}
	c.SetCookie(h.cookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) showForgotPassword(c *gin.Context) {
	h.renderQuestionForm(c)
}

func (h *Handler) forgotPassword(c *gin.Context) {
	form := validate.ForgotPasswordForm{
		Email:           c.PostForm("email"),
		Password:        c.PostForm("password"),
		ConfirmPassword: c.PostForm("confirmPassword"),
		FirstQuestion:   c.PostForm("firstQuestion"),
		FirstAnswer:     c.PostForm("firstAnswer"),
		SecondQuestion:  c.PostForm("secondQuestion"),
		SecondAnswer:    c.PostForm("secondAnswer"),
	}

	errs, err := h.auth.ForgotPassword(c.Request.Context(), form)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{keyErrorMessage: err.Error()})
		return
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{keyErrorMessages: errs})
		return
	}

	c.JSON(http.StatusOK, gin.H{keySuccess: msgPasswordReset})
}

func (h *Handler) showResetPassword(c *gin.Context) {
	if !h.requireRole(c, domain.RoleUser) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"resetPassword": true})
}

// resetPassword changes the password of the logged-in user. The session check
// runs before any field validation: without one the request is denied
// outright and nothing is read or written.
func (h *Handler) resetPassword(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		h.accessDenied(c)
		return
	}

	errs, err := h.auth.ResetPassword(
		c.Request.Context(),
		user,
		c.PostForm("oldPassword"),
		c.PostForm("password"),
		c.PostForm("confirmPassword"),
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{keyErrorMessage: err.Error()})
		return
	}
	if len(errs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{keyErrorMessages: errs})
		return
	}

	c.Redirect(http.StatusFound, "/reset-password-successful")
}

func (h *Handler) resetPasswordSuccessful(c *gin.Context) {
	if !h.requireRole(c, domain.RoleUser) {
		return
	}
	c.JSON(http.StatusOK, gin.H{keySuccess: msgPasswordReset})
}

func (h *Handler) listUsers(c *gin.Context) {
	if !h.requireRole(c, domain.RoleAdmin) {
		return
	}
	h.renderUserList(c)
}

func (h *Handler) manageUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.PostForm("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{keyErrorMessage: "invalid user id"})
		return
	}

	if err := h.admin.ManageUser(c.Request.Context(), id, c.PostForm("action")); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{keyErrorMessage: err.Error()})
		case errors.Is(err, service.ErrUnknownAction):
			c.JSON(http.StatusBadRequest, gin.H{keyErrorMessage: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{keyErrorMessage: err.Error()})
		}
		return
	}

	c.Redirect(http.StatusFound, "/admin/users")
}

// currentUser resolves the session cookie to a live user record. A session
// pointing at a deleted user counts as anonymous.
func (h *Handler) currentUser(c *gin.Context) (*domain.User, bool) {
	id, err := c.Cookie(h.cookieName)
	if err != nil {
		return nil, false
	}
	state, ok := h.sessions.Get(id)
	if !ok || !state.Authenticated {
		return nil, false
	}

	user, err := h.auth.GetUser(c.Request.Context(), state.UserID)
	if err != nil {
		return nil, false
	}
	return user, true
}

// requireRole is the permission gate: allowed means an authenticated session
// whose user holds the required role. Denial is a fixed payload, not a fault.
func (h *Handler) requireRole(c *gin.Context, role domain.Role) bool {
	user, ok := h.currentUser(c)
	if !ok || user.Role != role {
		h.accessDenied(c)
		return false
	}
	return true
}

func (h *Handler) accessDenied(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{keyErrorMessage: msgAccessDenied})
}

func (h *Handler) setSession(c *gin.Context, state session.State) {
	id, err := c.Cookie(h.cookieName)
	if err != nil || id == "" {
		id = h.sessions.Create()
		c.SetCookie(h.cookieName, id, 0, "/", "", false, true)
	}
	h.sessions.Set(id, state)
}

func (h *Handler) renderQuestionForm(c *gin.Context) {
	questions, err := h.auth.Questions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{keyErrorMessage: err.Error()})
		return
	}

	resp := make([]QuestionResponse, len(questions))
	for i := range questions {
		resp[i] = QuestionResponse{ID: questions[i].ID, Question: questions[i].Text}
	}
	c.JSON(http.StatusOK, gin.H{keyQuestions: resp})
}

func (h *Handler) renderUserList(c *gin.Context) {
	users, err := h.admin.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{keyErrorMessage: err.Error()})
		return
	}

	resp := make([]UserResponse, len(users))
	for i := range users {
		resp[i] = userToResponse(users[i])
	}
	c.JSON(http.StatusOK, gin.H{keyUsers: resp})
}

type QuestionResponse struct {
	ID       int64  `json:"id"`
	Question string `json:"question"`
}

type UserResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
		Role:     string(user.Role),
	}
}
