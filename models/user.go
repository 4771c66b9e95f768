package models

import "time"

type User struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	Username  string    `json:"username" gorm:"uniqueIndex;size:50;not null" bson:"username"`
	Password  string    `json:"-" gorm:"not null" bson:"password"` // bcrypt hash
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}
