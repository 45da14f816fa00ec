package artifacthub

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/rs/dnscache"
)

// dnsRefreshInterval is how often cached host lookups are refreshed.
const dnsRefreshInterval = 5 * time.Minute

// cachingTransport is an http.Transport whose dialer resolves hosts
// through a refreshed DNS cache.
type cachingTransport struct {
	*http.Transport
	resolver *dnscache.Resolver
	stop     chan struct{}
	once     sync.Once
}

func newCachingTransport() *cachingTransport {
	t := &cachingTransport{
		resolver: &dnscache.Resolver{},
		stop:     make(chan struct{}),
	}
	dialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	t.Transport = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			host, port, err := net.SplitHostPort(addr)
			if err != nil {
				return nil, err
			}
			ips, err := t.resolver.LookupHost(ctx, host)
			if err != nil {
				return nil, err
			}
			for _, ip := range ips {
				conn, err := dialer.DialContext(ctx, network, net.JoinHostPort(ip, port))
				if err == nil {
					return conn, nil
				}
			}
			return nil, fmt.Errorf("dial %s: no resolved address reachable", host)
		},
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   4,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	go t.refresh()
	return t
}

func (t *cachingTransport) refresh() {
	ticker := time.NewTicker(dnsRefreshInterval)
	defer ticker.Stop()
	for {
		select {
		case <-t.stop:
			return
		case <-ticker.C:
			t.resolver.Refresh(true)
		}
	}
}

// Close stops the refresh loop and drops idle connections.
func (t *cachingTransport) Close() {
	t.once.Do(func() {
		close(t.stop)
		t.CloseIdleConnections()
	})
}
