package api

import (
	"time"

	"lendit/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type createUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type updateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"omitempty,email"`
}

type createItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   int64  `json:"request_id"`
}

type updateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
}

type createBookingRequest struct {
	ItemID int64     `json:"item_id" validate:"required"`
	Start  time.Time `json:"start" validate:"required"`
	End    time.Time `json:"end" validate:"required"`
}

type createCommentRequest struct {
	Text string `json:"text" validate:"required,max=512"`
}

type createItemRequestRequest struct {
	Description string `json:"description" validate:"required"`
}

func (r updateItemRequest) toPatch() models.ItemPatch {
	return models.ItemPatch{
		Name:        r.Name,
		Description: r.Description,
		Available:   r.Available,
	}
}
