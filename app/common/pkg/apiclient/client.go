// Package apiclient 看板后端的 REST 客户端
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DefaultBaseURL = "http://localhost:8080"
	DefaultTimeout = 10 * time.Second
	// LoginPath 401 时应跳转的页面
	LoginPath = "/login"
	// EnvBaseURL 覆盖默认地址的环境变量
	EnvBaseURL = "CONTENT_OPS_API_BASE_URL"
)

// ErrUnauthorized 令牌缺失或失效，本地令牌已被清除
var ErrUnauthorized = errors.New("unauthorized")

// UnauthorizedError 携带应跳转的路径
type UnauthorizedError struct {
	RedirectTo string
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized, redirect to %s", e.RedirectTo)
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// StatusError 非 2xx、非 401 的响应
type StatusError struct {
	Code    int
	Reason  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("status %d %s: %s", e.Code, e.Reason, e.Message)
	}
	return fmt.Sprintf("status %d: %s", e.Code, e.Message)
}

// Client 所有请求带上 Bearer token，并统一处理状态码
type Client struct {
	baseURL string
	client  *http.Client
	tokens  TokenStore
	log     *logrus.Logger
}

type Option func(*Client)

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithLogger 替换日志输出
func WithLogger(l *logrus.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New baseURL 为空时使用默认地址
func New(baseURL string, tokens TokenStore, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if tokens == nil {
		tokens = &MemoryTokenStore{}
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
		tokens:  tokens,
		log:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromEnv 读取 .env 与环境变量中的服务地址
func NewFromEnv(tokens TokenStore, opts ...Option) *Client {
	_ = godotenv.Load()
	return New(os.Getenv(EnvBaseURL), tokens, opts...)
}

// BaseURL 当前服务地址
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Tokens 令牌存储
func (c *Client) Tokens() TokenStore {
	return c.tokens
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out)
}

// Do 发送请求；body 非空时编码为 JSON，out 非空时解码响应
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("path", path).Error("请求失败")
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if err := c.tokens.ClearToken(); err != nil {
			c.log.WithError(err).Warn("清除令牌失败")
		}
		c.log.WithField("path", path).Warn("未授权，请重新登录")
		return &UnauthorizedError{RedirectTo: LoginPath}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		var kerr struct {
			Reason  string `json:"reason"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &kerr) == nil && (kerr.Reason != "" || kerr.Message != "") {
			se.Reason, se.Message = kerr.Reason, kerr.Message
		}
		entry := c.log.WithFields(logrus.Fields{"path": path, "status": resp.StatusCode, "reason": se.Reason})
		switch resp.StatusCode {
		case http.StatusForbidden:
			entry.Error("没有权限访问该资源")
		case http.StatusNotFound:
			entry.Error("请求的资源不存在")
		default:
			entry.Error("请求失败: " + se.Message)
		}
		return se
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// Login 登录成功后保存令牌
func (c *Client) Login(ctx context.Context, username, password string) error {
	var reply struct {
		Token string `json:"token"`
	}
	if err := c.Post(ctx, "/auth/login", map[string]string{"username": username, "password": password}, &reply); err != nil {
		return err
	}
	if err := c.tokens.SetToken(reply.Token); err != nil {
		return err
	}
	return c.tokens.MarkVisited()
}

// Register 注册新用户
func (c *Client) Register(ctx context.Context, username, password string) error {
	return c.Post(ctx, "/auth/register", map[string]string{"username": username, "password": password}, nil)
}

// Logout 只清除本地令牌
func (c *Client) Logout() error {
	return c.tokens.ClearToken()
}
