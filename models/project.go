package models

import "time"

type Project struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Title       string    `json:"title" gorm:"not null" bson:"title"`
	Description string    `json:"description" gorm:"type:text;not null" bson:"description"`
	Tag         []string  `json:"tag" gorm:"serializer:json" bson:"tag"`
	Link        string    `json:"link" bson:"link"`
	Image       string    `json:"image" gorm:"not null" bson:"image"`
	AuthorID    *string   `json:"-" gorm:"size:36;index" bson:"author,omitempty"`
	Author      *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID" bson:"-"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (p *Project) GetID() string         { return p.ID }
func (p *Project) SetID(id string)       { p.ID = id }
func (p *Project) GetAuthorID() string   { return authorID(p.AuthorID) }
func (p *Project) SetAuthorID(id string) { p.AuthorID = optional(id) }
func (p *Project) SetAuthor(u *User)     { p.Author = u }
func (p *Project) GetMedia() string      { return p.Image }
func (p *Project) SetMedia(ref string)   { p.Image = ref }
func (p *Project) Stamp(now time.Time)   { stamp(&p.CreatedAt, &p.UpdatedAt, now) }

func (p *Project) Normalize() {
	if p.Tag == nil {
		p.Tag = []string{}
	}
}
