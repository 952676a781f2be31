package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/oauth2"

	"github.com/qrave1/ListenRoom/internal/application/config"
	"github.com/qrave1/ListenRoom/internal/application/constant"
	"github.com/qrave1/ListenRoom/internal/domain/input"
	"github.com/qrave1/ListenRoom/internal/infra/ports/http/dto"
	"github.com/qrave1/ListenRoom/internal/infra/ports/http/middleware"
	"github.com/qrave1/ListenRoom/internal/usecase"
)

const (
	GoogleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

	jwtCookie   = "jwt"
	stateCookie = "oauthState"
)

// OAuthProvider - часть *oauth2.Config, которая нужна для входа через Google
type OAuthProvider interface {
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code string, opts ...oauth2.AuthCodeOption) (*oauth2.Token, error)
	Client(ctx context.Context, t *oauth2.Token) *http.Client
}

type AuthHandler struct {
	cfg         *config.Config
	oauth       OAuthProvider
	userInfoURL string

	userUsecase usecase.UserUsecase
}

func NewAuthHandler(cfg *config.Config, oauth OAuthProvider, userInfoURL string, userUsecase usecase.UserUsecase) *AuthHandler {
	return &AuthHandler{
		cfg:         cfg,
		oauth:       oauth,
		userInfoURL: userInfoURL,
		userUsecase: userUsecase,
	}
}

func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	state, err := randomState()
	if err != nil {
		slog.Error("generate oauth state", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not start login"})
	}

	c.SetCookie(h.cookie(stateCookie, state, time.Now().Add(10*time.Minute)))

	return c.JSON(http.StatusOK, dto.GoogleLoginResponse{
		RedirectURL: h.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline),
	})
}

func (h *AuthHandler) GoogleCallback(c echo.Context) error {
	state, err := c.Cookie(stateCookie)
	if err != nil || state.Value == "" || state.Value != c.QueryParam("state") {
		return badRequest(c, "invalid oauth state")
	}

	c.SetCookie(h.cookie(stateCookie, "", time.Unix(0, 0)))

	code := c.QueryParam("code")
	if code == "" {
		return badRequest(c, "code required")
	}

	ctx := c.Request().Context()

	token, err := h.oauth.Exchange(ctx, code)
	if err != nil {
		slog.Error("exchange oauth code", slog.Any(constant.Error, err))
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "could not exchange code"})
	}

	profile, err := h.fetchProfile(ctx, token)
	if err != nil {
		slog.Error("fetch google profile", slog.Any(constant.Error, err))
		return c.JSON(http.StatusBadGateway, map[string]string{"error": "could not fetch google profile"})
	}

	user, err := h.userUsecase.SignInWithGoogle(ctx, profile)
	if err != nil {
		return respondError(c, "sign in with google", err)
	}

	signed, err := h.userUsecase.GenerateJWT(user)
	if err != nil {
		slog.Error("generate JWT failed", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create token"})
	}

	c.SetCookie(h.cookie(jwtCookie, signed, time.Now().Add(h.cfg.JWTTTL)))

	slog.Info("user signed in", slog.Any(constant.UserID, user.ID), slog.String(constant.UserName, user.Name))

	return c.Redirect(http.StatusTemporaryRedirect, h.cfg.WebURL)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	c.SetCookie(h.cookie(jwtCookie, "", time.Unix(0, 0)))

	return c.NoContent(http.StatusOK)
}

func (h *AuthHandler) GetMe(c echo.Context) error {
	userID, ok := currentUserID(c)
	if !ok {
		return unauthorized(c)
	}

	user, err := h.userUsecase.GetUserByID(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, "get me", err)
	}

	return c.JSON(http.StatusOK, dto.GetMeResponse{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		ProfileImage: user.ProfileImage.String,
	})
}

func (h *AuthHandler) AdminAccess(c echo.Context) error {
	var req dto.AdminAccessRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request")
	}

	if err := h.userUsecase.CheckAdminAccess(req.Password); err != nil {
		return respondError(c, "check admin access", err)
	}

	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Access granted"})
}

func (h *AuthHandler) fetchProfile(ctx context.Context, token *oauth2.Token) (*input.GoogleProfileInput, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}

	resp, err := h.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("get userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	profile := new(input.GoogleProfileInput)
	if err = json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}

	return profile, nil
}

// cookie: в debug режиме cookie живет на текущем хосте без Secure, иначе на корневом домене
func (h *AuthHandler) cookie(name, value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	if !h.cfg.Debug {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode

		if u, err := url.Parse(h.cfg.Domain); err == nil {
			cookie.Domain = middleware.BuildCookieDomain(u.Host)
		}
	}

	return cookie
}

func randomState() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
