package services

import (
	"context"
	"net/http"
	"time"

	"github.com/yashrajoria/storefront/clients"
	"github.com/yashrajoria/storefront/models"
	"github.com/yashrajoria/storefront/repository"
	"go.uber.org/zap"
)

// AuthService signs users in and out of the managed backend and builds the
// Viewer mirrored into the session cookie.
type AuthService interface {
	SignUp(ctx context.Context, req *models.SignupRequest) (*models.Viewer, *ServiceError)
	SignIn(ctx context.Context, req *models.LoginRequest) (*models.Viewer, *ServiceError)
	SignOut(ctx context.Context, viewer *models.Viewer)
	RefreshSession(ctx context.Context, viewer *models.Viewer) (*models.Viewer, *ServiceError)
	VerifySession(ctx context.Context, viewer *models.Viewer) *ServiceError
}

type authServiceImpl struct {
	auth     clients.AuthClient
	profiles repository.ProfileRepository
	logger   *zap.Logger
}

func NewAuthService(auth clients.AuthClient, profiles repository.ProfileRepository, logger *zap.Logger) AuthService {
	return &authServiceImpl{auth: auth, profiles: profiles, logger: logger}
}

// SignUp creates the auth user and then its profiles row with role user. When the
// backend withholds a session until the email is confirmed, the returned viewer
// is not authenticated.
func (s *authServiceImpl) SignUp(ctx context.Context, req *models.SignupRequest) (*models.Viewer, *ServiceError) {
	session, err := s.auth.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, operationFailed("sign up", err)
	}

	profile := &models.Profile{
		ID:       session.User.ID,
		Email:    req.Email,
		FullName: req.FullName,
		Role:     models.RoleUser,
	}
	created, err := s.profiles.Create(repository.WithAccessToken(ctx, session.AccessToken), profile)
	if err != nil {
		s.logger.Error("Profile insert failed after sign up", zap.String("user_id", profile.ID), zap.Error(err))
		return nil, operationFailed("sign up", err)
	}

	s.logger.Info("User signed up", zap.String("user_id", created.ID))
	return viewerFrom(session, created), nil
}

// SignIn authenticates and then looks the profile up. A failed lookup does not
// fail the sign-in; the viewer falls back to role user and the default name.
func (s *authServiceImpl) SignIn(ctx context.Context, req *models.LoginRequest) (*models.Viewer, *ServiceError) {
	session, err := s.auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, operationFailed("sign in", err)
	}

	profile, err := s.profiles.FindByID(repository.WithAccessToken(ctx, session.AccessToken), session.User.ID)
	if err != nil {
		s.logger.Warn("Profile lookup failed, using defaults", zap.String("user_id", session.User.ID), zap.Error(err))
		profile = &models.Profile{ID: session.User.ID, Email: session.User.Email, Role: models.RoleUser}
	}

	s.logger.Info("User signed in", zap.String("user_id", session.User.ID), zap.String("role", string(profile.Role)))
	return viewerFrom(session, profile), nil
}

// SignOut revokes the remote session. The caller clears local state regardless.
func (s *authServiceImpl) SignOut(ctx context.Context, viewer *models.Viewer) {
	if !viewer.Authenticated() {
		return
	}
	if err := s.auth.SignOut(ctx, viewer.AccessToken); err != nil {
		s.logger.Warn("Remote sign out failed", zap.String("user_id", viewer.UserID), zap.Error(err))
	}
}

// RefreshSession trades the viewer's refresh token for a new token pair. The
// mirrored profile fields are carried over unchanged. A refresh token the
// backend refuses yields a 401.
func (s *authServiceImpl) RefreshSession(ctx context.Context, viewer *models.Viewer) (*models.Viewer, *ServiceError) {
	if viewer == nil || viewer.RefreshToken == "" {
		return nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "refresh session failed: no refresh token"}
	}
	session, err := s.auth.Refresh(ctx, viewer.RefreshToken)
	if err != nil {
		return nil, sessionRejected("refresh session", err)
	}
	if session.User.ID != "" && session.User.ID != viewer.UserID {
		return nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "refresh session failed: user mismatch"}
	}

	next := *viewer
	next.AccessToken = session.AccessToken
	next.RefreshToken = session.RefreshToken
	next.ExpiresAt = expiresAt(session, time.Now())
	s.logger.Debug("Session refreshed", zap.String("user_id", viewer.UserID))
	return &next, nil
}

// VerifySession asks the auth API who owns the viewer's access token.
func (s *authServiceImpl) VerifySession(ctx context.Context, viewer *models.Viewer) *ServiceError {
	if !viewer.Authenticated() {
		return &ServiceError{StatusCode: http.StatusUnauthorized, Message: "verify session failed: not signed in"}
	}
	user, err := s.auth.GetUser(ctx, viewer.AccessToken)
	if err != nil {
		return sessionRejected("verify session", err)
	}
	if user.ID != viewer.UserID {
		return &ServiceError{StatusCode: http.StatusUnauthorized, Message: "verify session failed: user mismatch"}
	}
	return nil
}

// sessionRejected reports any 4xx from the auth API as a 401: GoTrue answers a
// spent refresh token with 400 and a bad JWT with 401 or 403.
func sessionRejected(op string, err error) *ServiceError {
	svcErr := operationFailed(op, err)
	if svcErr.StatusCode >= 400 && svcErr.StatusCode < 500 {
		svcErr.StatusCode = http.StatusUnauthorized
	}
	return svcErr
}

func expiresAt(session *models.Session, now time.Time) int64 {
	if session.ExpiresIn <= 0 {
		return 0
	}
	return now.Add(time.Duration(session.ExpiresIn) * time.Second).Unix()
}

func viewerFrom(session *models.Session, profile *models.Profile) *models.Viewer {
	role := profile.Role
	if role != models.RoleAdmin {
		role = models.RoleUser
	}
	email := profile.Email
	if email == "" {
		email = session.User.Email
	}
	return &models.Viewer{
		UserID:       session.User.ID,
		Email:        email,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresAt:    expiresAt(session, time.Now()),
		Role:         role,
		FullName:     profile.FullName,
	}
}
