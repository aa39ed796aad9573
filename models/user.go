package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID         string    `bson:"_id,omitempty" json:"id"`
	Username   string    `bson:"username" json:"username"`
	Email      string    `bson:"email" json:"email"`
	Password   string    `bson:"password,omitempty" json:"-"`
	IsVerified bool      `bson:"isVerified" json:"isVerified"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

func (u *User) ComparePassword(candidate string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(candidate))
	return err == nil
}
