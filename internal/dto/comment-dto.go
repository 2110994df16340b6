package dto

import "github.com/aarondl/null/v8"

type CreateCommentDTO struct {
	Comment     string      `json:"comment" validate:"required"`
	AuthorName  string      `json:"author_name" validate:"required,max=255"`
	AuthorEmail null.String `json:"author_email" validate:"omitempty,email"`
	IsInternal  bool        `json:"is_internal"`
}
