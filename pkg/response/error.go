package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BizError 面向用户的业务提示, 不是系统故障
type BizError struct {
	Code int
	Msg  string
}

func (e *BizError) Error() string {
	return e.Msg
}

// Is 同一个 code 视为同一种提示, 文案可以不同
func (e *BizError) Is(target error) bool {
	t, ok := target.(*BizError)
	return ok && t.Code == e.Code
}

func NewError(code int, msg string) *BizError {
	return &BizError{
		Code: code,
		Msg:  msg,
	}
}

func Abort(c *gin.Context, httpStatus int, msg string) {
	c.AbortWithStatusJSON(httpStatus, Response{
		Code: httpStatus,
		Msg:  msg,
		Data: nil,
	})
}

// Recovery panic 时返回统一的 500 结构
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				Abort(c, http.StatusInternalServerError, "系统异常")
			}
		}()
		c.Next()
	}
}
