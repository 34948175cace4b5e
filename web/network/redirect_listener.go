// Package network serves plain HTTP and HTTPS on one port: plain requests are
// answered with a redirect to the https:// URL.
package network

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
)

// tlsRecordHandshake is the first byte of every TLS ClientHello.
const tlsRecordHandshake = 0x16

// RedirectListener wraps the raw TCP listener that sits under tls.NewListener.
type RedirectListener struct {
	net.Listener
}

func NewRedirectListener(l net.Listener) net.Listener {
	return &RedirectListener{Listener: l}
}

func (l *RedirectListener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	return &sniffConn{Conn: conn, r: bufio.NewReader(conn)}, nil
}

// sniffConn looks at the first byte on the first Read. TLS traffic is replayed
// untouched; anything else is parsed as an HTTP request and redirected.
type sniffConn struct {
	net.Conn
	r *bufio.Reader

	once sync.Once
	err  error
}

func (c *sniffConn) sniff() {
	first, err := c.r.Peek(1)
	if err != nil {
		c.err = err
		return
	}
	if first[0] == tlsRecordHandshake {
		return
	}
	c.err = io.EOF
	defer c.Conn.Close()

	req, err := http.ReadRequest(c.r)
	if err != nil {
		return
	}
	resp := http.Response{
		StatusCode: http.StatusTemporaryRedirect,
		ProtoMajor: 1,
		ProtoMinor: 1,
		Header:     http.Header{},
	}
	resp.Header.Set("Location", fmt.Sprintf("https://%s%s", req.Host, req.RequestURI))
	_ = resp.Write(c.Conn)
}

func (c *sniffConn) Read(b []byte) (int, error) {
	c.once.Do(c.sniff)
	if c.err != nil {
		return 0, c.err
	}
	return c.r.Read(b)
}
