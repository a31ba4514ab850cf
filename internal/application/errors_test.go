package application

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/oksasatya/pet-adoption-api/internal/domain/repository"
	"github.com/oksasatya/pet-adoption-api/pkg/apperror"
)

func TestInternalErr(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	assert.Same(t, ErrAnimalNotFound, internalErr(logger, "get", ErrAnimalNotFound))

	tooLong := fmt.Errorf("%w: value too long for type character varying(100)", repository.ErrInvalidValue)
	err := internalErr(logger, "create adoption", tooLong)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.Equal(t, apperror.KindInvalidInput, apperror.KindOf(err))

	err = internalErr(logger, "list", errors.New("connection reset"))
	assert.Equal(t, apperror.KindInternal, apperror.KindOf(err))
}
