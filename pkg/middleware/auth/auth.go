package auth

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pharmlab/procure/internal/config"
	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/middleware/logger"
	"golang.org/x/oauth2"
)

var (
	oauthConfig *oauth2.Config
	oauthOnce   sync.Once
	USERKEY     = "AUTH_USER_KEY"
)

func GetOAuthConfig() *oauth2.Config {
	oauthOnce.Do(func() {
		authConf := config.Global().OAuth2
		oauthConfig = &oauth2.Config{
			ClientID:     authConf.ClientID,
			ClientSecret: authConf.ClientSecret,
			Scopes:       authConf.Scopes,
			Endpoint: oauth2.Endpoint{
				TokenURL: authConf.TokenURL,
				AuthURL:  authConf.AuthURL,
			},
		}
	})
	return oauthConfig
}

// Claims is the session token payload. Tokens are issued elsewhere; this
// service only verifies them.
type Claims struct {
	jwt.RegisteredClaims
	Name  string `json:"name"`
	Role  string `json:"role"`
	LabID string `json:"lab_id"`
}

func (c *Claims) actor() (*common.Actor, error) {
	role, ok := common.ParseRole(c.Role)
	if !ok {
		return nil, code.RoleUnknownErr.WithMsg(c.Role)
	}
	if c.Subject == "" {
		return nil, code.InvalidToken.WithMsg("missing subject")
	}
	return &common.Actor{ID: c.Subject, Name: c.Name, Role: role, LabID: c.LabID}, nil
}

// ParseToken verifies an HS256 session token and returns its actor.
func ParseToken(secret, issuer, token string) (*common.Actor, error) {
	claims := &Claims{}
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, code.InvalidToken.WithMsg("token expired")
		}
		return nil, code.InvalidToken.WithErr(err)
	}
	return claims.actor()
}

type userInfo struct {
	Sub   string `json:"sub"`
	Name  string `json:"name"`
	Role  string `json:"role"`
	LabID string `json:"lab_id"`
}

// ValidateToken resolves an OAuth2 access token through the provider's
// userinfo endpoint.
func ValidateToken(ctx context.Context, tokenType string, token string) (*common.Actor, error) {
	client := GetOAuthConfig().Client(ctx, &oauth2.Token{
		AccessToken: token,
		TokenType:   tokenType,
	})
	resp, err := client.Get(config.Global().OAuth2.UserInfoURL)
	if err != nil {
		logger.Errorf(ctx, "Failed to get user info: %v", err)
		return nil, code.InvalidToken
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, code.InvalidToken.WithMsgf("userinfo status %d", resp.StatusCode)
	}
	info := &userInfo{}
	if err := json.NewDecoder(resp.Body).Decode(info); err != nil {
		return nil, code.InvalidToken.WithErr(err)
	}
	claims := &Claims{Name: info.Name, Role: info.Role, LabID: info.LabID}
	claims.Subject = info.Sub
	return claims.actor()
}
