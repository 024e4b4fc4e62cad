package utils

import (
	"time"

	"github.com/go-resty/resty/v2"
)

// HTTPClientOptions 出站请求客户端配置
type HTTPClientOptions struct {
	Timeout   time.Duration
	ProxyURL  string
	Debug     bool
	UserAgent string
}

// NewHTTPClient 创建一个配置好代理、超时和调试模式的 Resty 客户端
// 它是全系统统一的出站请求入口
func NewHTTPClient(opts HTTPClientOptions) *resty.Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Goldsmith-Store/1.0"
	}

	client := resty.New().
		SetDebug(opts.Debug).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent)

	// 只要配置了代理地址就挂载代理
	if opts.ProxyURL != "" {
		client.SetProxy(opts.ProxyURL)
	}
	return client
}
