package domain

import "time"

// Nickname and icon limits match the column widths of the users collection.
const (
	NicknameMaxLen = 64
	IconMaxLen     = 32
	PasswordMaxLen = 256
)

// User models a registered player account. The password hash is never
// serialized into API responses.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Nickname     string    `json:"nickname" bson:"nickname"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	Icon         string    `json:"icon" bson:"icon"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}
