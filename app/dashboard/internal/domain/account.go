package domain

// AccountStatus 账号激活状态
type AccountStatus string

const (
	AccountActive   AccountStatus = "active"
	AccountInactive AccountStatus = "inactive"
)

// Growth 账号近一周的增长数据
type Growth struct {
	Followers int `json:"followers" yaml:"followers"`
	Views     int `json:"views" yaml:"views"`
	Likes     int `json:"likes" yaml:"likes"`
	Saves     int `json:"saves" yaml:"saves"`
	Comments  int `json:"comments" yaml:"comments"`
}

// Account 托管的社交媒体账号
type Account struct {
	ID        string        `json:"id" yaml:"id"`
	Nickname  string        `json:"nickname" yaml:"nickname"`
	Avatar    string        `json:"avatar" yaml:"avatar"`
	Followers int           `json:"followers" yaml:"followers"`
	Posts     int           `json:"posts" yaml:"posts"`
	Status    AccountStatus `json:"status" yaml:"status"`
	Growth    Growth        `json:"growth" yaml:"growth"`
}

// Active 账号是否处于激活状态
func (a *Account) Active() bool {
	return a.Status == AccountActive
}

// AccountOverview 所有账号的汇总指标
type AccountOverview struct {
	AccountCount    int `json:"account_count"`
	ActiveCount     int `json:"active_count"`
	FollowerGrowth  int `json:"follower_growth"`
	ViewGrowth      int `json:"view_growth"`
	InteractionSum  int `json:"interaction_sum"`
	TotalFollowers  int `json:"total_followers"`
	TotalPostsCount int `json:"total_posts_count"`
}
