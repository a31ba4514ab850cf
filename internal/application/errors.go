package application

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/pet-adoption-api/internal/domain/repository"
	"github.com/oksasatya/pet-adoption-api/pkg/apperror"
)

var (
	ErrMissingFields      = apperror.InvalidInput("missing required fields")
	ErrInvalidRole        = apperror.InvalidInput("invalid role")
	ErrInvalidEmail       = apperror.InvalidInput("invalid email address")
	ErrEmailTaken         = apperror.Conflict("email already registered")
	ErrInvalidCredentials = apperror.Unauthenticated("invalid credentials")
	ErrUserNotFound       = apperror.NotFound("user not found")

	ErrAnimalNotFound       = apperror.NotFound("animal not found")
	ErrInvalidAnimalStatus  = apperror.InvalidInput("invalid animal status")
	ErrInvalidPagination    = apperror.InvalidInput("page and per_page must be positive integers")
	ErrEmptySearchQuery     = apperror.InvalidInput("search query is required")
	ErrImageStoreDisabled   = apperror.New(apperror.KindInternal, "image storage is not configured")
	ErrUnsupportedImageType = apperror.InvalidInput("image must be jpeg, png, gif or webp")

	ErrAdoptionNotFound       = apperror.NotFound("adoption not found")
	ErrInvalidAdoptionStatus  = apperror.InvalidInput("invalid adoption status")
	ErrAdoptionAlreadyDecided = apperror.Conflict("adoption has already been reviewed")

	ErrInvalidValue = apperror.InvalidInput("value exceeds allowed length or format")
)

// internalErr passes application errors through untouched and turns
// anything else into a logged, opaque internal error.
func internalErr(logger *logrus.Logger, op string, err error) error {
	var ae *apperror.Error
	if errors.As(err, &ae) {
		return err
	}
	if errors.Is(err, repository.ErrInvalidValue) {
		logger.WithError(err).WithField("op", op).Warn("rejected by store")
		return ErrInvalidValue
	}
	logger.WithError(err).WithField("op", op).Error("unexpected failure")
	return apperror.Internal(err)
}
