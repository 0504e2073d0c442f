package auth

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pharmlab/procure/internal/config"
	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/middleware/logger"
	"github.com/pharmlab/procure/pkg/utils"
)

type AuthType string

const (
	AuthTypeBearer AuthType = "Bearer"
)

type AuthFunc func(ctx *gin.Context, token string) (*common.Actor, error)

func AuthWeb() gin.HandlerFunc {
	conf := config.Global().Auth
	switch conf.AuthSource {
	case config.AuthOAuth2:
		return Auth(map[AuthType]AuthFunc{AuthTypeBearer: getOAuthUser})
	case config.AuthJWT:
		return Auth(map[AuthType]AuthFunc{AuthTypeBearer: JWTAuth(conf.JWTSecret, conf.JWTIssuer)})
	default:
		panic("unknown auth source: " + string(conf.AuthSource))
	}
}

func JWTAuth(secret, issuer string) AuthFunc {
	return func(_ *gin.Context, token string) (*common.Actor, error) {
		return ParseToken(secret, issuer, token)
	}
}

func getOAuthUser(ctx *gin.Context, token string) (*common.Actor, error) {
	return ValidateToken(ctx, string(AuthTypeBearer), token)
}

// Auth resolves the caller from the access_token cookie, the access_token
// query parameter or the Authorization header, in that order.
func Auth(authFuncMap map[AuthType]AuthFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		cookie, _ := ctx.Cookie("access_token")
		queryToken := ctx.Query("access_token")
		authHeader := utils.Or(cookie, queryToken, ctx.GetHeader("Authorization"))
		if authHeader == "" {
			common.ReplyErr(ctx, code.UnLogin)
			ctx.Abort()
			return
		}
		tokens := strings.Fields(authHeader)
		if len(tokens) != 2 {
			common.ReplyErr(ctx, code.LoginFormatErr)
			ctx.Abort()
			return
		}
		f, ok := authFuncMap[AuthType(tokens[0])]
		if !ok {
			common.ReplyErr(ctx, code.LoginFormatErr)
			ctx.Abort()
			return
		}
		actor, err := f(ctx, tokens[1])
		if err != nil {
			logger.Warnf(ctx, "auth token rejected: %v", err)
			common.ReplyErr(ctx, err)
			ctx.Abort()
			return
		}
		ctx.Set(USERKEY, actor)
		ctx.Next()
	}
}

func GetCurrentUser(ctx context.Context) *common.Actor {
	gCtx, ok := ctx.(*gin.Context)
	if !ok {
		return nil
	}
	user, exists := gCtx.Get(USERKEY)
	if !exists {
		return nil
	}
	actor, ok := user.(*common.Actor)
	if !ok {
		return nil
	}
	return actor
}
