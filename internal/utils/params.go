package utils

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetPathParam returns the trimmed path parameter name, failing when it is
// empty.
func GetPathParam(ctx *gin.Context, name string) (string, error) {
	value := strings.TrimSpace(ctx.Param(name))

	if value == "" {
		return "", fmt.Errorf("%s not found", name)
	}

	return value, nil
}
