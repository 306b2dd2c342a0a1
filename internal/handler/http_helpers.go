package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fsrsite/internal/apperr"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var errInternal = apperr.Internal("Internal Server Error")

// respondError renders err as {"message", "code"}. Anything outside the
// apperr taxonomy is logged and hidden behind a generic 500.
func respondError(c *gin.Context, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		log.Error().
			Err(err).
			Str("request_id", requestID(c)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("unhandled error")
		appErr = errInternal
	}

	body := gin.H{"message": appErr.Message}
	if appErr.Code != "" {
		body["code"] = appErr.Code
	}
	c.AbortWithStatusJSON(appErr.Status(), body)
}

// bindBody binds JSON or form bodies, depending on the content type, and
// turns validation failures into a single 400.
func bindBody(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBind(dst); err != nil {
		respondError(c, bindError(err))
		return false
	}
	return true
}

func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return errUploadTooLarge
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperr.BadRequest("Invalid request body", "INVALID_BODY")
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", fe.Field()))
		case "fsrslug":
			messages = append(messages, fmt.Sprintf("%s may only contain lowercase letters, digits and dashes", fe.Field()))
		case "csscolor":
			messages = append(messages, fmt.Sprintf("%s must be a CSS color", fe.Field()))
		case "url", "http_url":
			messages = append(messages, fmt.Sprintf("%s must be a valid URL", fe.Field()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return apperr.BadRequest(strings.Join(messages, ", "), "INVALID_BODY")
}

// safeRedirect only allows local absolute paths so the login flow cannot be
// used as an open redirect.
func safeRedirect(target string) string {
	target = strings.TrimSpace(target)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return "/"
	}
	return target
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
