package models

import "time"

type Post struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Title      string    `json:"title" gorm:"not null" bson:"title"`
	Summary    string    `json:"summary" gorm:"not null" bson:"summary"`
	Content    string    `json:"content" gorm:"type:text;not null" bson:"content"`
	Categories []string  `json:"categories" gorm:"serializer:json" bson:"categories"`
	Cover      string    `json:"cover" gorm:"not null" bson:"cover"`
	AuthorID   *string   `json:"-" gorm:"size:36;index" bson:"author,omitempty"`
	Author     *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID" bson:"-"`
	CreatedAt  time.Time `json:"createdAt" gorm:"index" bson:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt" bson:"updatedAt"`
}

func (p *Post) GetID() string         { return p.ID }
func (p *Post) SetID(id string)       { p.ID = id }
func (p *Post) GetAuthorID() string   { return authorID(p.AuthorID) }
func (p *Post) SetAuthorID(id string) { p.AuthorID = optional(id) }
func (p *Post) SetAuthor(u *User)     { p.Author = u }
func (p *Post) GetMedia() string      { return p.Cover }
func (p *Post) SetMedia(ref string)   { p.Cover = ref }
func (p *Post) Stamp(now time.Time)   { stamp(&p.CreatedAt, &p.UpdatedAt, now) }

// Normalize makes sure categories serialize as a list.
func (p *Post) Normalize() {
	if p.Categories == nil {
		p.Categories = []string{}
	}
}
