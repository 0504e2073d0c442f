package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pharmlab/procure/pkg/common/code"
)

type Error struct {
	Msg  string `json:"msg"`
	Kind string `json:"kind,omitempty"`
	Info any    `json:"info,omitempty"`
}

type Resp struct {
	Code  code.ErrCode `json:"code"`
	Data  any          `json:"data,omitempty"`
	Error *Error       `json:"error,omitempty"`
}

func ReplyOk(ctx *gin.Context, data ...any) {
	resp := &Resp{Code: code.Success}
	if len(data) > 0 {
		resp.Data = data[0]
	}
	ctx.JSON(http.StatusOK, resp)
}

// ReplyErr writes err with an HTTP status derived from its kind. An optional
// message overrides the error text.
func ReplyErr(ctx *gin.Context, err error, msg ...string) {
	errMsg := code.MsgOf(err)
	if len(msg) > 0 && msg[0] != "" {
		errMsg = msg[0]
	}
	kind := code.KindOf(err)
	ctx.JSON(HTTPStatus(kind), &Resp{
		Code: code.CodeOf(err),
		Error: &Error{
			Msg:  errMsg,
			Kind: kind.String(),
			Info: code.DataOf(err),
		},
	})
}

func Reply(ctx *gin.Context, err error, data ...any) {
	if err != nil {
		ReplyErr(ctx, err)
		return
	}
	ReplyOk(ctx, data...)
}

func HTTPStatus(kind code.Kind) int {
	switch kind {
	case code.KindValidation:
		return http.StatusBadRequest
	case code.KindPermission:
		return http.StatusForbidden
	case code.KindStateConflict:
		return http.StatusConflict
	case code.KindNotFound:
		return http.StatusNotFound
	case code.KindUnauthenticated:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
