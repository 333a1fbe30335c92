package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/yashrajoria/storefront/auth"
	"github.com/yashrajoria/storefront/database"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/services"
	"go.uber.org/zap"
)

// ErrNoSession is returned when the Session middleware did not run.
var ErrNoSession = errors.New("no session on request")

const (
	SessionName  = "storefront_session"
	ViewerKey    = "viewer"
	SessionIDKey = "session_id"
	sessionKey   = "session"
)

// Session value keys. The viewer is mirrored field by field so the cookie stays
// readable by gob without registering types.
const (
	valSID          = "sid"
	valAccessToken  = "access_token"
	valUserID       = "user_id"
	valEmail        = "email"
	valRole         = "role"
	valFullName     = "full_name"
	valRefreshToken = "refresh_token"
	valExpiresAt    = "expires_at"
	valCheckedAt    = "checked_at"
	valFlashes      = "flashes"
)

const (
	// refreshLeeway is how long before expiry a token is refreshed.
	refreshLeeway = time.Minute
	// remoteCheckInterval spaces remote token checks when no JWT secret is configured.
	remoteCheckInterval = 5 * time.Minute
)

// SessionAuthority refreshes and checks stored tokens against the auth API.
type SessionAuthority interface {
	RefreshSession(ctx context.Context, viewer *models.Viewer) (*models.Viewer, *services.ServiceError)
	VerifySession(ctx context.Context, viewer *models.Viewer) *services.ServiceError
}

// NewCookieStore builds the signed and encrypted session cookie store. The
// secret must be at least 32 bytes; its first 32 bytes are the encryption key.
func NewCookieStore(secret string, maxAge int, secure bool) *sessions.CookieStore {
	key := []byte(secret)
	store := sessions.NewCookieStore(key, key[:32])
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// Session loads the cookie session, assigns a session id on first visit and
// restores the viewer. A token close to expiry is refreshed. The token is then
// checked locally with verifier or, without a JWT secret, remotely through
// authority every few minutes. A token that is refused signs the viewer out;
// the session id and with it the cart survive. Auth API outages keep the
// viewer as is.
func Session(store sessions.Store, verifier *auth.TokenVerifier, authority SessionAuthority, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := store.Get(c.Request, SessionName)
		if err != nil {
			// Undecodable cookie (rotated secret, tampering). Start fresh.
			logger.Debug("Discarding unreadable session cookie", zap.Error(err))
		}

		dirty := false
		sid, _ := sess.Values[valSID].(string)
		if sid == "" {
			sid = uuid.NewString()
			sess.Values[valSID] = sid
			dirty = true
		}

		viewer := viewerFromSession(sess)
		if viewer != nil {
			var changed bool
			viewer, changed = revalidate(c.Request.Context(), sess, viewer, verifier, authority, logger)
			dirty = dirty || changed
		}

		if dirty {
			if err := sess.Save(c.Request, c.Writer); err != nil {
				logger.Error("Failed to save session", zap.Error(err))
			}
		}

		c.Set(sessionKey, sess)
		c.Set(SessionIDKey, sid)
		if viewer != nil {
			c.Set(ViewerKey, viewer)
		}
		c.Next()
	}
}

// revalidate returns the viewer to use for the request, or nil when it was
// signed out, and whether sess changed.
func revalidate(ctx context.Context, sess *sessions.Session, viewer *models.Viewer, verifier *auth.TokenVerifier, authority SessionAuthority, logger *zap.Logger) (*models.Viewer, bool) {
	log := logger.With(zap.String("user_id", viewer.UserID))
	now := time.Now()

	if authority != nil && viewer.RefreshToken != "" && viewer.ExpiresWithin(now, refreshLeeway) {
		refreshed, svcErr := authority.RefreshSession(ctx, viewer)
		switch {
		case svcErr == nil:
			writeViewerValues(sess, refreshed)
			sess.Values[valCheckedAt] = now.Unix()
			return refreshed, true
		case svcErr.Unauthenticated():
			log.Info("Refresh token rejected, signing out", zap.String("reason", svcErr.Message))
			clearViewerValues(sess)
			return nil, true
		default:
			log.Warn("Session refresh failed, keeping current token", zap.String("reason", svcErr.Message))
		}
	}

	if verifier.Enabled() {
		claims, err := verifier.ParseAndValidateToken(viewer.AccessToken)
		if err != nil || claims.UserID != viewer.UserID {
			log.Info("Stored access token rejected, signing out", zap.NamedError("reason", err))
			clearViewerValues(sess)
			return nil, true
		}
		return viewer, false
	}

	if authority == nil {
		return viewer, false
	}
	checkedAt, _ := sess.Values[valCheckedAt].(int64)
	if now.Sub(time.Unix(checkedAt, 0)) < remoteCheckInterval {
		return viewer, false
	}
	svcErr := authority.VerifySession(ctx, viewer)
	switch {
	case svcErr == nil:
		sess.Values[valCheckedAt] = now.Unix()
		return viewer, true
	case svcErr.Unauthenticated():
		log.Info("Auth API rejected stored token, signing out", zap.String("reason", svcErr.Message))
		clearViewerValues(sess)
		return nil, true
	default:
		log.Warn("Remote session check failed, keeping viewer", zap.String("reason", svcErr.Message))
		return viewer, false
	}
}

func viewerFromSession(sess *sessions.Session) *models.Viewer {
	token, _ := sess.Values[valAccessToken].(string)
	userID, _ := sess.Values[valUserID].(string)
	if token == "" || userID == "" {
		return nil
	}
	email, _ := sess.Values[valEmail].(string)
	role, _ := sess.Values[valRole].(string)
	fullName, _ := sess.Values[valFullName].(string)
	refresh, _ := sess.Values[valRefreshToken].(string)
	expiresAt, _ := sess.Values[valExpiresAt].(int64)
	return &models.Viewer{
		UserID:       userID,
		Email:        email,
		AccessToken:  token,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		Role:         models.Role(role),
		FullName:     fullName,
	}
}

func writeViewerValues(sess *sessions.Session, viewer *models.Viewer) {
	sess.Values[valAccessToken] = viewer.AccessToken
	sess.Values[valUserID] = viewer.UserID
	sess.Values[valEmail] = viewer.Email
	sess.Values[valRole] = string(viewer.Role)
	sess.Values[valFullName] = viewer.FullName
	sess.Values[valRefreshToken] = viewer.RefreshToken
	sess.Values[valExpiresAt] = viewer.ExpiresAt
}

func clearViewerValues(sess *sessions.Session) {
	for _, k := range []string{valAccessToken, valUserID, valEmail, valRole, valFullName, valRefreshToken, valExpiresAt, valCheckedAt} {
		delete(sess.Values, k)
	}
}

func currentSession(c *gin.Context) *sessions.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(*sessions.Session); ok {
			return sess
		}
	}
	return nil
}

// CurrentViewer returns the signed-in viewer, or nil for anonymous requests.
func CurrentViewer(c *gin.Context) *models.Viewer {
	if v, ok := c.Get(ViewerKey); ok {
		if viewer, ok := v.(*models.Viewer); ok {
			return viewer
		}
	}
	return nil
}

// CartKey is the persistence key of the request's cart.
func CartKey(c *gin.Context) string {
	return database.CartKey(c.GetString(SessionIDKey))
}

// SaveViewer mirrors viewer into the session cookie.
func SaveViewer(c *gin.Context, viewer *models.Viewer) error {
	sess := currentSession(c)
	if sess == nil {
		return ErrNoSession
	}
	writeViewerValues(sess, viewer)
	sess.Values[valCheckedAt] = time.Now().Unix()
	c.Set(ViewerKey, viewer)
	return sess.Save(c.Request, c.Writer)
}

// ExpireViewer signs out a viewer whose token the backend refused mid-request,
// so the login page does not send them straight back. It reports whether a
// signed-in viewer was cleared.
func ExpireViewer(c *gin.Context) bool {
	if !CurrentViewer(c).Authenticated() {
		return false
	}
	return ClearViewer(c) == nil
}

// ClearViewer signs the session out. The session id is kept.
func ClearViewer(c *gin.Context) error {
	sess := currentSession(c)
	if sess == nil {
		return nil
	}
	clearViewerValues(sess)
	c.Set(ViewerKey, (*models.Viewer)(nil))
	return sess.Save(c.Request, c.Writer)
}

// Flash is a one-shot notice shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// AddFlash queues a notice for the next page.
func AddFlash(c *gin.Context, kind, message string) {
	sess := currentSession(c)
	if sess == nil {
		return
	}
	queued, _ := sess.Values[valFlashes].([]string)
	sess.Values[valFlashes] = append(queued, kind+"|"+message)
	_ = sess.Save(c.Request, c.Writer)
}

// Flashes pops queued notices. It must run before the response body is written.
func Flashes(c *gin.Context) []Flash {
	sess := currentSession(c)
	if sess == nil {
		return nil
	}
	queued, _ := sess.Values[valFlashes].([]string)
	if len(queued) == 0 {
		return nil
	}
	delete(sess.Values, valFlashes)
	_ = sess.Save(c.Request, c.Writer)

	out := make([]Flash, 0, len(queued))
	for _, q := range queued {
		kind, msg, ok := strings.Cut(q, "|")
		if !ok {
			kind, msg = FlashSuccess, q
		}
		out = append(out, Flash{Kind: kind, Message: msg})
	}
	return out
}

// RequireAuth stops anonymous requests. With a non-empty loginPath the browser
// is redirected there; otherwise a 401 JSON body is returned.
func RequireAuth(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentViewer(c).Authenticated() {
			c.Next()
			return
		}
		if loginPath != "" {
			AddFlash(c, FlashError, "Please log in first")
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}

// AdminOnly restricts access to viewers whose mirrored role is admin.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentViewer(c).IsAdmin() {
			Abort(c, http.StatusForbidden, "Access Denied. Admins Only.")
			return
		}
		c.Next()
	}
}

// Abort ends the request with msg as JSON, or as plain text for browsers.
func Abort(c *gin.Context, status int, msg string) {
	if c.NegotiateFormat(gin.MIMEJSON, gin.MIMEHTML) == gin.MIMEHTML {
		c.String(status, msg)
		c.Abort()
		return
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
