package handler

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/informs-api/pkg/errors"
	"github.com/noah-isme/informs-api/pkg/response"
)

// pathID parses a positive integer path parameter, writing a 400 response when it is malformed.
func pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s: %q", name, raw)))
		return 0, false
	}
	return id, true
}

// versionQuery reads the optional version_id query parameter.
func versionQuery(c *gin.Context) (*int64, bool) {
	raw, present := c.GetQuery("version_id")
	if !present || raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid version_id: %q", raw)))
		return nil, false
	}
	return &id, true
}

// bindJSON decodes the request body, writing a 400 response on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid request body"))
		return false
	}
	return true
}
