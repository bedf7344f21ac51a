package conf

import (
	"os"
	"time"
)

type Bootstrap struct {
	Server     *Server     `json:"server"`
	Data       *Data       `json:"data"`
	Auth       *Auth       `json:"auth"`
	Log        *Log        `json:"log"`
	Generation *Generation `json:"generation"`
	Assistant  *Assistant  `json:"assistant"`
	Material   *Material   `json:"material"`
	Notify     *Notify     `json:"notify"`
	Seed       *Seed       `json:"seed"`
}

type Server struct {
	Http *HTTP `json:"http"`
	Grpc *GRPC `json:"grpc"`
}

// GRPC 只提供健康检查，Addr 为空时不启动
type GRPC struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

type HTTP struct {
	Addr    string `json:"addr"`
	Timeout string `json:"timeout"`
}

type Data struct {
	Database *Database `json:"database"`
}

// Database Driver 为 memory 或 postgres
type Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
}

type Auth struct {
	JwtKey        string `json:"jwt_key"`
	AdminUsername string `json:"admin_username"`
	AdminPassword string `json:"admin_password"`
}

type Log struct {
	Level string `json:"level"`
	File  string `json:"file"`
}

type Generation struct {
	Duration string `json:"duration"`
	Tick     string `json:"tick"`
	TipEvery int32  `json:"tip_every"`
	Retain   string `json:"retain"`
}

// Assistant Provider 为 scripted 或 openai
type Assistant struct {
	Provider string `json:"provider"`
	Llm      *LLM   `json:"llm"`
	Qps      int32  `json:"qps"`
}

type LLM struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Model   string `json:"model"`
}

type Material struct {
	Enabled  bool     `json:"enabled"`
	Provider string   `json:"provider"`
	Tavily   *Tavily  `json:"tavily"`
	Searxng  *SearXNG `json:"searxng"`
	// Enrich 摘要过短时抓取原文
	Enrich bool `json:"enrich"`
}

type Tavily struct {
	ApiKey string `json:"api_key"`
}

type SearXNG struct {
	BaseUrl string `json:"base_url"`
	Timeout int32  `json:"timeout"`
}

// Notify Provider 为 log 或 slack
type Notify struct {
	Provider string `json:"provider"`
	Slack    *Slack `json:"slack"`
}

type Slack struct {
	Token   string `json:"token"`
	Channel string `json:"channel"`
}

// Seed File 为空时使用内置演示数据
type Seed struct {
	Demo bool   `json:"demo"`
	File string `json:"file"`
}

// ApplyEnv 用环境变量覆盖敏感配置
func (bc *Bootstrap) ApplyEnv() {
	if v := os.Getenv("CONTENT_OPS_JWT_KEY"); v != "" {
		if bc.Auth == nil {
			bc.Auth = &Auth{}
		}
		bc.Auth.JwtKey = v
	}
	if v := os.Getenv("CONTENT_OPS_LLM_API_KEY"); v != "" {
		if bc.Assistant == nil {
			bc.Assistant = &Assistant{}
		}
		if bc.Assistant.Llm == nil {
			bc.Assistant.Llm = &LLM{}
		}
		bc.Assistant.Llm.ApiKey = v
	}
	if v := os.Getenv("CONTENT_OPS_DB_SOURCE"); v != "" {
		if bc.Data == nil {
			bc.Data = &Data{}
		}
		if bc.Data.Database == nil {
			bc.Data.Database = &Database{Driver: "postgres"}
		}
		bc.Data.Database.Source = v
	}
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		if bc.Notify == nil {
			bc.Notify = &Notify{}
		}
		if bc.Notify.Slack == nil {
			bc.Notify.Slack = &Slack{}
		}
		bc.Notify.Slack.Token = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		if bc.Material == nil {
			bc.Material = &Material{}
		}
		if bc.Material.Tavily == nil {
			bc.Material.Tavily = &Tavily{}
		}
		bc.Material.Tavily.ApiKey = v
	}
}

// ParseDuration 解析形如 "15s" 的时长，空串或非法值返回 def
func ParseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
