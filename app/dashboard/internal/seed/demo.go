package seed

import (
	"fmt"
	"time"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

// Demo 内置演示数据：三个账号、2025 年 3 月的两个计划、六条内容
func Demo() *Fixture {
	fx := &Fixture{
		Accounts: []*domain.Account{
			{
				ID: "1", Nickname: "时尚生活家", Avatar: "https://picsum.photos/100/100?random=1",
				Followers: 12580, Posts: 326, Status: domain.AccountActive,
				Growth: domain.Growth{Followers: 580, Views: 125000, Likes: 8900, Saves: 3400},
			},
			{
				ID: "2", Nickname: "美食探店达人", Avatar: "https://picsum.photos/100/100?random=2",
				Followers: 45678, Posts: 892, Status: domain.AccountActive,
				Growth: domain.Growth{Followers: 678, Views: 256000, Likes: 15600, Saves: 5600},
			},
			{
				ID: "3", Nickname: "旅行摄影师", Avatar: "https://picsum.photos/100/100?random=3",
				Followers: 89012, Posts: 567, Status: domain.AccountInactive,
			},
		},
		Plans: []*domain.Plan{
			demoPlan("demo-1", "春季穿搭系列计划", "2025-03-01", "2025-03-07", "1", 7, 0,
				"春季穿搭分享 %d", "分享一套春季日常穿搭，舒适又时尚...", []string{"穿搭", "春季", "日常"}),
			demoPlan("demo-2", "美食探店系列计划", "2025-03-15", "2025-03-20", "2", 6, 10,
				"美食探店记录 %d", "发现了一家超级好吃的餐厅，必须安利给大家...", []string{"美食", "探店", "推荐"}),
		},
		Contents: []*domain.ContentItem{
			demoContent("1", "春日穿搭分享", "分享一套春季日常穿搭，舒适又时尚...", domain.ContentPublished,
				"2024-03-15 10:00:00", []string{"穿搭", "春季", "日常"}, 2451, 167, 89, 32),
			demoContent("2", "美食探店推荐", "发现了一家超级好吃的餐厅，必须安利给大家...", domain.ContentPending,
				"2024-03-20 15:00:00", []string{"美食", "探店", "推荐"}, 0, 0, 0, 0),
			demoContent("3", "护肤品使用心得", "最近使用的一款精华液体验分享...", domain.ContentPending,
				"2024-03-25 20:00:00", []string{"护肤", "美妆", "测评"}, 0, 0, 0, 0),
			demoContent("4", "旅行日记", "周末来一场说走就走的旅行，探索城市新风景...", domain.ContentPublished,
				"2024-03-16 09:30:00", []string{"旅行", "周末", "城市探索"}, 1892, 145, 76, 28),
			demoContent("5", "居家布置灵感", "分享我的房间改造计划，打造温馨舒适的生活空间...", domain.ContentPending,
				"2024-03-22 14:00:00", []string{"家居", "生活", "DIY"}, 0, 0, 0, 0),
			demoContent("6", "健身打卡记录", "记录我的健身历程，一起保持运动的好习惯...", domain.ContentPublished,
				"2024-03-17 18:00:00", []string{"运动", "健身", "生活方式"}, 2156, 198, 94, 45),
		},
	}
	return fx
}

func demoPlan(id, name, start, end, account string, count, imageOffset int, titleFmt, body string, tags []string) *domain.Plan {
	s, _ := domain.ParseDate(start)
	e, _ := domain.ParseDate(end)
	p := &domain.Plan{
		ID:          id,
		Name:        name,
		StartDate:   s,
		EndDate:     e,
		Count:       count,
		TargetCount: count,
		AccountID:   account,
		CreatedAt:   s,
	}
	// 演示计划的笔记 ID 形如 demo-note-1-0
	for i := 0; i < count; i++ {
		p.Notes = append(p.Notes, &domain.Note{
			ID:       fmt.Sprintf("demo-note-%s-%d", id[len("demo-"):], i),
			Title:    fmt.Sprintf(titleFmt, i+1),
			Content:  body,
			ImageURL: fmt.Sprintf("https://picsum.photos/400/400?random=%d", i+imageOffset),
			Tags:     append([]string(nil), tags...),
		})
	}
	return p
}

func demoContent(id, title, body string, status domain.ContentStatus, publish string, tags []string, views, likes, favorites, comments int) *domain.ContentItem {
	t, _ := time.ParseInLocation(time.DateTime, publish, time.UTC)
	return &domain.ContentItem{
		ID:          id,
		Title:       title,
		Content:     body,
		ImageURL:    "https://picsum.photos/400/400?random=" + id,
		Status:      status,
		PublishTime: &t,
		Tags:        tags,
		Views:       views,
		Likes:       likes,
		Favorites:   favorites,
		Comments:    comments,
	}
}
