package models

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks a document against the schema declared on its struct tags.
// Failures wrap ErrMalformedDocument.
func (d Document) Validate() error {
	if err := validatorInstance().Struct(d); err != nil {
		return fmt.Errorf("%w: uid=%q: %v", ErrMalformedDocument, d.UID, err)
	}
	if d.FirstPublicationDate != nil && d.LastPublicationDate != nil &&
		d.LastPublicationDate.Before(*d.FirstPublicationDate) {
		return fmt.Errorf("%w: uid=%q: last publication before first", ErrMalformedDocument, d.UID)
	}
	return nil
}
