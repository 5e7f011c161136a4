package http

import (
	"net"
	"net/http"
	"time"
)

const (
	// maxConnsPerHost は管理APIへ同時に張る接続数の上限です。
	maxConnsPerHost = 16
	dialTimeout     = 3 * time.Second
	// idleConnTimeout はレートリミッターの1ウィンドウ(1秒)待っても接続が切れない長さにします。
	idleConnTimeout = 15 * time.Second
)

// ClientConfig は管理APIクライアントの接続設定です。
type ClientConfig struct {
	// Timeout はリクエスト全体のタイムアウトです。
	Timeout time.Duration
	// Rate は1秒あたりの最大リクエスト数です。0以下はペース制御なしを意味します。
	Rate int
}

// NewHTTPClient は単一の管理APIサーバーに対して使うHTTPクライアントを作成します。
//
// 接続先は常に1ホストなので、アイドル接続の上限はホスト単位で決めます。
// 1秒あたりRate件に制限されたリクエストがすべて既存接続を再利用できるよう、
// MaxIdleConnsPerHostとMaxConnsPerHostをRateに合わせます（上限maxConnsPerHost）。
//
// 注意:
//   - http.DefaultClientにはタイムアウトがないため、常にこのクライアントを使用すること
func NewHTTPClient(cfg ClientConfig) *http.Client {
	conns := connsForRate(cfg.Rate)
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        conns,
		MaxIdleConnsPerHost: conns,
		MaxConnsPerHost:     conns,
		IdleConnTimeout:     idleConnTimeout,
		TLSHandshakeTimeout: dialTimeout,
	}
	return &http.Client{Timeout: cfg.Timeout, Transport: t}
}

// connsForRate はRateから1ホストあたりの接続数を決めます。
func connsForRate(rate int) int {
	if rate <= 0 || rate > maxConnsPerHost {
		return maxConnsPerHost
	}
	return rate
}
