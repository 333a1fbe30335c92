package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yashrajoria/storefront/middleware"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
	"go.uber.org/zap"
)

// AuthController handles the login, signup and logout forms.
type AuthController struct {
	auth   services.AuthService
	view   *Renderer
	logger *zap.Logger
}

func NewAuthController(auth services.AuthService, view *Renderer, logger *zap.Logger) *AuthController {
	return &AuthController{auth: auth, view: view, logger: logger}
}

func (ac *AuthController) LoginPage(c *gin.Context) {
	if middleware.CurrentViewer(c).Authenticated() {
		c.Redirect(http.StatusSeeOther, "/home")
		return
	}
	ac.view.HTML(c, http.StatusOK, "login.html", "Login", gin.H{"email": ""})
}

// Login handles POST /login. Admins land on /admin, everyone else on /home.
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		ac.view.HTML(c, http.StatusBadRequest, "login.html", "Login", gin.H{
			"email": req.Email,
			"error": "Please enter a valid email and password",
		})
		return
	}

	viewer, svcErr := ac.auth.SignIn(c.Request.Context(), &req)
	if svcErr != nil {
		ac.view.HTML(c, svcErr.StatusCode, "login.html", "Login", gin.H{"email": req.Email, "error": svcErr.Message})
		return
	}
	if err := middleware.SaveViewer(c, viewer); err != nil {
		ac.logger.Error("Failed to persist session", zap.Error(err))
		ac.view.HTML(c, http.StatusInternalServerError, "login.html", "Login", gin.H{"email": req.Email, "error": "Could not start your session"})
		return
	}

	if viewer.IsAdmin() {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	c.Redirect(http.StatusSeeOther, "/home")
}

func (ac *AuthController) SignupPage(c *gin.Context) {
	ac.view.HTML(c, http.StatusOK, "signup.html", "Sign up", gin.H{"email": "", "full_name": ""})
}

// Signup handles POST /signup. Without a session (email confirmation pending)
// the user is sent to /login.
func (ac *AuthController) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		ac.view.HTML(c, http.StatusBadRequest, "signup.html", "Sign up", gin.H{
			"email":     req.Email,
			"full_name": req.FullName,
			"error":     "Name, a valid email and a password of at least 6 characters are required",
		})
		return
	}

	viewer, svcErr := ac.auth.SignUp(c.Request.Context(), &req)
	if svcErr != nil {
		ac.view.HTML(c, svcErr.StatusCode, "signup.html", "Sign up", gin.H{
			"email":     req.Email,
			"full_name": req.FullName,
			"error":     svcErr.Message,
		})
		return
	}

	if !viewer.Authenticated() {
		middleware.AddFlash(c, middleware.FlashSuccess, "Account created. Confirm your email, then log in.")
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	if err := middleware.SaveViewer(c, viewer); err != nil {
		ac.logger.Error("Failed to persist session", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/home")
}

// Logout handles POST /logout. The local session is cleared even when the
// remote sign-out fails.
func (ac *AuthController) Logout(c *gin.Context) {
	ac.auth.SignOut(c.Request.Context(), middleware.CurrentViewer(c))
	if err := middleware.ClearViewer(c); err != nil {
		ac.logger.Error("Failed to clear session", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, "/login")
}
