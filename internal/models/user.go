package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/aoigj100a/todo-fullstack-sub000/internal/utils"
)

type User struct {
	ID           string    `gorm:"type:char(24);primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	Name         string    `gorm:"type:varchar(100)" json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a 24-hex identifier, same format as tasks.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		id, err := utils.NewObjectID()
		if err != nil {
			return err
		}
		u.ID = id
	}
	return nil
}
