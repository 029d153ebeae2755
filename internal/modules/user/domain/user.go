package domain

import "time"

// User is a Telegram account that talked to the bot
type User struct {
	ID       int64     `json:"id"`
	Username string    `json:"username"`
	SeenAt   time.Time `json:"seen_at"`
}
