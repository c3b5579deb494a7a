package repository

import (
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	apperrors "github.com/yashrajoria/catalog-service/internal/errors"
)

func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperrors.Wrap(apperrors.ErrNotFound, err)
	}
	if mongo.IsDuplicateKeyError(err) {
		return apperrors.Wrap(apperrors.ErrConflict, err)
	}
	return apperrors.Wrap(apperrors.ErrStorage, fmt.Errorf("%s: %w", op, err))
}

func notFound(op string) error {
	return apperrors.Wrap(apperrors.ErrNotFound, fmt.Errorf("%s: %w", op, mongo.ErrNoDocuments))
}
