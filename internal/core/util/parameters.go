package util

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

// BindJSON decodes the request body into T. An empty body yields the zero value.
func BindJSON[T any](c *gin.Context) (T, error) {
	var params T

	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return params, nil
	}

	if err := c.ShouldBindJSON(&params); err != nil {
		if errors.Is(err, io.EOF) {
			return params, nil
		}

		return params, err
	}

	return params, nil
}
