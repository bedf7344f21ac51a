package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// TokenStore 保存登录令牌和首次访问标记
type TokenStore interface {
	Token() string
	SetToken(token string) error
	ClearToken() error
	HasVisited() bool
	MarkVisited() error
}

type tokenState struct {
	Token      string `json:"token,omitempty"`
	HasVisited bool   `json:"has_visited"`
}

// FileTokenStore 以 JSON 文件持久化，每次修改立即落盘
type FileTokenStore struct {
	path string

	mu    sync.Mutex
	state tokenState
}

// NewFileTokenStore 文件不存在时从空状态开始
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	s := &FileTokenStore{path: path}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read token store: %w", err)
	}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &s.state); err != nil {
			return nil, fmt.Errorf("parse token store %s: %w", path, err)
		}
	}
	return s, nil
}

func (s *FileTokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

func (s *FileTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	return s.save()
}

func (s *FileTokenStore) ClearToken() error {
	return s.SetToken("")
}

func (s *FileTokenStore) HasVisited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.HasVisited
}

func (s *FileTokenStore) MarkVisited() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.HasVisited = true
	return s.save()
}

func (s *FileTokenStore) save() error {
	b, err := json.Marshal(s.state)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(s.path, b, 0o600)
}

// MemoryTokenStore 进程内的实现
type MemoryTokenStore struct {
	mu    sync.Mutex
	state tokenState
}

func (s *MemoryTokenStore) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Token
}

func (s *MemoryTokenStore) SetToken(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Token = token
	return nil
}

func (s *MemoryTokenStore) ClearToken() error {
	return s.SetToken("")
}

func (s *MemoryTokenStore) HasVisited() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.HasVisited
}

func (s *MemoryTokenStore) MarkVisited() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.HasVisited = true
	return nil
}
