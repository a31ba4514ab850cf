package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pet-adoption-api/pkg/apperror"
	"github.com/oksasatya/pet-adoption-api/pkg/response"
	"github.com/oksasatya/pet-adoption-api/pkg/validation"
)

var errInvalidID = apperror.InvalidInput("id must be a positive integer")

// writeError maps an application error onto the envelope. Anything that is
// not an *apperror.Error is treated as internal and its detail is hidden.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	_ = c.Error(err)

	var ae *apperror.Error
	if !errors.As(err, &ae) {
		ae = apperror.Internal(err)
	}
	status := apperror.HTTPStatus(ae.Kind)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		}).Error("internal error")
		response.Error(c, status, "internal server error", nil)
		return
	}
	response.Error(c, status, ae.Message, ae.Details)
}

// bindError answers 400 with per-field details from the validator.
func bindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, errInvalidID.Message, nil)
		return 0, false
	}
	return id, true
}

// queryInt reads an optional positive integer query parameter.
func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
