package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nyaya-sahayak/logging"
	"nyaya-sahayak/types"
)

type Response struct {
	Code int         `json:"code"` // 0:成功, -1:失败
	Msg  string      `json:"msg"`
	Data interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code: 0,
		Msg:  "success",
		Data: data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code: 0,
		Msg:  "success",
		Data: data,
	})
}

// Fail 参数错误，返回 400
func Fail(c *gin.Context, msg string) {
	FailWithStatus(c, http.StatusBadRequest, msg)
}

func FailWithStatus(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Response{
		Code: -1,
		Msg:  msg,
	})
}

// Error maps a service error onto an HTTP status: ErrNotFound → 404,
// ErrInvalidInput → 400, anything else → 500 with a generic message.
func Error(c *gin.Context, err error) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		FailWithStatus(c, http.StatusNotFound, err.Error())
	case errors.Is(err, types.ErrInvalidInput):
		FailWithStatus(c, http.StatusBadRequest, err.Error())
	default:
		logging.New("api").Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err)
		FailWithStatus(c, http.StatusInternalServerError, "internal server error")
	}
}
