package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v3"
	fsession "github.com/gofiber/fiber/v3/middleware/session"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"modportal/internal/config"
	"modportal/internal/middleware"
	"modportal/internal/models"
)

// UserUpserter persists users on login.
type UserUpserter interface {
	UpsertUser(ctx context.Context, user *models.User) error
}

// AuthHandler handles OIDC authentication flows.
type AuthHandler struct {
	provider     *oidc.Provider
	oauth2Config oauth2.Config
	verifier     *oidc.IDTokenVerifier
	users        UserUpserter
	cfg          *config.Config
	roles        *config.YAMLConfig
	log          *zap.Logger
}

// NewAuthHandler creates a new auth handler with OIDC configuration.
func NewAuthHandler(ctx context.Context, cfg *config.Config, roles *config.YAMLConfig, users UserUpserter, log *zap.Logger) (*AuthHandler, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OIDCIssuer)
	if err != nil {
		return nil, err
	}

	oauth2Config := oauth2.Config{
		ClientID:     cfg.OIDCClientID,
		ClientSecret: cfg.OIDCClientSecret,
		RedirectURL:  cfg.OIDCRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}

	verifier := provider.Verifier(&oidc.Config{ClientID: cfg.OIDCClientID})

	return &AuthHandler{
		provider:     provider,
		oauth2Config: oauth2Config,
		verifier:     verifier,
		users:        users,
		cfg:          cfg,
		roles:        roles,
		log:          log,
	}, nil
}

// LoginPage renders the sign-in page.
func (h *AuthHandler) LoginPage(c fiber.Ctx) error {
	return c.Render("login", PageData(fiber.Map{"Title": "Sign in"}, h.cfg, nil, c.Path()))
}

// Login initiates the OIDC login flow.
func (h *AuthHandler) Login(c fiber.Ctx) error {
	state := generateState()

	sess := fsession.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}
	sess.Set("oauth_state", state)

	return c.Redirect().To(h.oauth2Config.AuthCodeURL(state))
}

// Callback handles the OIDC callback after authentication. The access token
// is kept in the session and forwarded to the remote API as the caller's
// bearer credential.
func (h *AuthHandler) Callback(c fiber.Ctx) error {
	sess := fsession.FromContext(c)
	if sess == nil {
		return fiber.NewError(fiber.StatusInternalServerError, "session not available")
	}

	savedState, _ := sess.Get("oauth_state").(string)
	if savedState == "" || savedState != c.Query("state") {
		return fiber.NewError(fiber.StatusBadRequest, "invalid state")
	}
	sess.Delete("oauth_state")

	oauth2Token, err := h.oauth2Config.Exchange(c.Context(), c.Query("code"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "failed to exchange code")
	}

	rawIDToken, ok := oauth2Token.Extra("id_token").(string)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing id_token")
	}

	idToken, err := h.verifier.Verify(c.Context(), rawIDToken)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id_token")
	}

	claims := make(map[string]any)
	if err := idToken.Claims(&claims); err != nil {
		return err
	}

	// Some providers only put minimal claims in the ID token.
	userInfo, err := h.provider.UserInfo(c.Context(), oauth2.StaticTokenSource(oauth2Token))
	if err == nil {
		var userInfoClaims map[string]any
		if err := userInfo.Claims(&userInfoClaims); err == nil {
			for k, v := range userInfoClaims {
				claims[k] = v
			}
		}
	} else {
		h.log.Warn("failed to fetch userinfo", zap.Error(err))
	}

	user := userFromClaims(claims, h.cfg.OIDCRoleClaim, h.roles)
	if err := h.users.UpsertUser(c.Context(), user); err != nil {
		return err
	}

	sess.Set(middleware.SessionUserSub, user.Sub)
	sess.Set(middleware.SessionAPIToken, oauth2Token.AccessToken)

	h.log.Info("user signed in", zap.String("sub", user.Sub), zap.String("role", user.Role))

	redirectURL := "/moderation"
	if saved, ok := sess.Get(middleware.SessionRedirect).(string); ok && isLocalPath(saved) {
		redirectURL = saved
	}
	sess.Delete(middleware.SessionRedirect)

	return c.Redirect().To(redirectURL)
}

// Logout clears the user session.
func (h *AuthHandler) Logout(c fiber.Ctx) error {
	if sess := fsession.FromContext(c); sess != nil {
		if err := sess.Destroy(); err != nil {
			h.log.Warn("failed to destroy session", zap.Error(err))
		}
	}
	return c.Redirect().To("/login")
}

// userFromClaims maps OIDC claims onto a user. The role comes from roleClaim,
// which may hold a string or a list of strings.
func userFromClaims(claims map[string]any, roleClaim string, roles *config.YAMLConfig) *models.User {
	sub, _ := claims["sub"].(string)
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	username, _ := claims["preferred_username"].(string)

	var values []string
	switch v := claims[roleClaim].(type) {
	case string:
		values = []string{v}
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
	}

	role := roles.RoleForClaimValues(values)
	if !models.ValidRole(role) {
		role = models.RoleUser
	}

	return &models.User{
		Sub:      sub,
		Username: username,
		Email:    email,
		Name:     name,
		Role:     role,
	}
}

func generateState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
