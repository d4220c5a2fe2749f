package utils

import (
	"fmt"
	"unicode/utf8"

	"github.com/techforum-dev/techforum/internal/domain"
	"github.com/techforum-dev/techforum/internal/errors"
)

// Thread validation mirrors the submission form rules: title and description
// need at least 10 characters, at least one tag of a known type is required.

type ThreadValidator struct{}

func (v *ThreadValidator) Title(title domain.ThreadTitle) error {
	if utf8.RuneCountInString(title) < 10 {
		return errors.Validation("Title must be at least 10 characters")
	}
	if utf8.RuneCountInString(title) > 200 {
		return errors.Validation("Title is too long")
	}
	return nil
}

func (v *ThreadValidator) Description(description string) error {
	if utf8.RuneCountInString(description) < 10 {
		return errors.Validation("Description must be at least 10 characters")
	}
	if utf8.RuneCountInString(description) > 10_000 {
		return errors.Validation("Description is too long")
	}
	return nil
}

func (v *ThreadValidator) Category(category domain.Category) error {
	if !category.Valid() {
		return errors.Validation(fmt.Sprintf("Unknown category %q", category))
	}
	return nil
}

func (v *ThreadValidator) Tags(tags []domain.ThreadTag) error {
	if len(tags) == 0 {
		return errors.Validation("At least one tag is required")
	}
	for _, tag := range tags {
		if !tag.TagType.Valid() {
			return errors.Validation(fmt.Sprintf("Unknown tag type %q", tag.TagType))
		}
	}
	return nil
}

type CommentValidator struct{}

func (v *CommentValidator) Content(content string) error {
	if len(content) == 0 {
		return errors.Validation("Comment content is empty")
	}
	if utf8.RuneCountInString(content) > 10_000 {
		return errors.Validation("Comment is too long")
	}
	return nil
}

type UserValidator struct{}

func (v *UserValidator) Username(username string) error {
	n := utf8.RuneCountInString(username)
	if n < 3 || n > 30 {
		return errors.Validation("Username must be between 3 and 30 characters")
	}
	return nil
}

func (v *UserValidator) Password(password domain.Password) error {
	if utf8.RuneCountInString(password) < 8 {
		return errors.Validation("Password must be at least 8 characters")
	}
	return nil
}
