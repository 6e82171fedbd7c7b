package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
	Email        string    `gorm:"size:254;not null;uniqueIndex" json:"email"`
	Username     string    `gorm:"size:150;not null;uniqueIndex" json:"username"`
	FirstName    string    `gorm:"size:150;not null" json:"first_name"`
	LastName     string    `gorm:"size:150;not null" json:"last_name"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Avatar       string    `gorm:"size:255" json:"avatar"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// Follow is a directed subscription edge: UserID follows FollowingID.
type Follow struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UserID      uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair;check:chk_follow_not_self,user_id <> following_id" json:"user_id"`
	FollowingID uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair;index" json:"following_id"`

	Following User `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE" json:"-"`
	User      User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}

func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return nil
}
