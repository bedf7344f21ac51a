package domain

// User 后台登录用户
type User struct {
	ID           int
	Username     string
	PasswordHash string
	Nickname     string
	Avatar       string
}
