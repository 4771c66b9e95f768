package services

import (
	"strings"

	"portfolio/models"
	"portfolio/utils"
)

// Fields carries the user-supplied part of a create or update request. Nil
// pointers mean "not supplied".
type Fields[T any] interface {
	// Validate checks the input. On create every required field must be
	// present; on update only supplied fields are checked.
	Validate(create bool) error
	// Apply copies the supplied fields onto doc. Validate must succeed first.
	Apply(doc *T)
}

type PostFields struct {
	Title    *string
	Summary  *string
	Content  *string
	Category *string // JSON array, e.g. ["tech","go"]

	categories []string
}

func (f *PostFields) Validate(create bool) error {
	if err := required("title", f.Title, create); err != nil {
		return err
	}
	if err := required("summary", f.Summary, create); err != nil {
		return err
	}
	if err := required("content", f.Content, create); err != nil {
		return err
	}
	tags, err := parseTags("category", f.Category, create)
	if err != nil {
		return err
	}
	f.categories = tags
	return nil
}

func (f *PostFields) Apply(p *models.Post) {
	set(&p.Title, f.Title)
	set(&p.Summary, f.Summary)
	set(&p.Content, f.Content)
	if f.categories != nil {
		p.Categories = f.categories
	}
}

type ProjectFields struct {
	Title       *string
	Description *string
	Link        *string
	Tag         *string // JSON array

	tags []string
}

func (f *ProjectFields) Validate(create bool) error {
	if err := required("title", f.Title, create); err != nil {
		return err
	}
	if err := required("description", f.Description, create); err != nil {
		return err
	}
	tags, err := parseTags("tag", f.Tag, create)
	if err != nil {
		return err
	}
	f.tags = tags
	return nil
}

func (f *ProjectFields) Apply(p *models.Project) {
	set(&p.Title, f.Title)
	set(&p.Description, f.Description)
	if f.Link != nil {
		p.Link = strings.TrimSpace(*f.Link)
	}
	if f.tags != nil {
		p.Tag = f.tags
	}
}

// required rejects blank values, and missing ones when creating.
func required(field string, v *string, create bool) error {
	if v == nil {
		if create {
			return &ValidationError{Field: field, Message: "is required"}
		}
		return nil
	}
	if strings.TrimSpace(*v) == "" {
		return &ValidationError{Field: field, Message: "must not be empty"}
	}
	return nil
}

// parseTags returns nil when the field is absent on update so the stored
// list is kept, and an empty list when absent on create.
func parseTags(field string, raw *string, create bool) ([]string, error) {
	if raw == nil {
		if create {
			return []string{}, nil
		}
		return nil, nil
	}
	tags, err := utils.ParseTags(*raw)
	if err != nil {
		return nil, &ValidationError{Field: field, Message: "must be a JSON array of strings"}
	}
	return tags, nil
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
