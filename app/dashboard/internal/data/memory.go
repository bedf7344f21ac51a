package data

import (
	"slices"
	"sync"

	"github.com/iWorld-y/content_ops/app/dashboard/internal/domain"
)

// memStore 进程内存储，读写都做深拷贝
type memStore struct {
	mu sync.RWMutex

	plans     map[string]*domain.Plan
	planOrder []string

	accounts     map[string]*domain.Account
	accountOrder []string

	moments     map[string]*domain.Moment
	momentOrder []string

	contents     map[string]*domain.ContentItem
	contentOrder []string

	users  map[string]*domain.User
	userID int
}

func newMemStore() *memStore {
	return &memStore{
		plans:    make(map[string]*domain.Plan),
		accounts: make(map[string]*domain.Account),
		moments:  make(map[string]*domain.Moment),
		contents: make(map[string]*domain.ContentItem),
		users:    make(map[string]*domain.User),
	}
}

func removeID(order []string, id string) []string {
	if i := slices.Index(order, id); i >= 0 {
		return slices.Delete(order, i, i+1)
	}
	return order
}
