package service

import (
	"fmt"

	"retailapi/internal/model"
)

// ErrIDRequired is returned when a lookup receives an empty id.
var ErrIDRequired = fmt.Errorf("%w: id is required", model.ErrValidation)
