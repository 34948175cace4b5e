package network

import (
	"bufio"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) (net.Listener, chan net.Conn) {
	raw, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	l := NewRedirectListener(raw)
	t.Cleanup(func() { l.Close() })

	accepted := make(chan net.Conn, 1)
	go func() {
		c, err := l.Accept()
		if err == nil {
			accepted <- c
		}
	}()
	return raw, accepted
}

func TestPlainHTTPIsRedirected(t *testing.T) {
	raw, accepted := listen(t)

	client, err := net.Dial("tcp", raw.Addr().String())
	require.NoError(t, err)
	defer client.Close()
	_, err = client.Write([]byte("GET /books?x=1 HTTP/1.1\r\nHost: library.local:5000\r\n\r\n"))
	require.NoError(t, err)

	server := <-accepted
	n, err := server.Read(make([]byte, 16))
	assert.Zero(t, n)
	assert.Error(t, err)

	resp, err := http.ReadResponse(bufio.NewReader(client), nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "https://library.local:5000/books?x=1", resp.Header.Get("Location"))
}

func TestTLSBytesArePassedThrough(t *testing.T) {
	raw, accepted := listen(t)

	client, err := net.Dial("tcp", raw.Addr().String())
	require.NoError(t, err)
	defer client.Close()
	_, err = client.Write([]byte{tlsRecordHandshake, 0x03, 0x01})
	require.NoError(t, err)

	server := <-accepted
	defer server.Close()
	buf := make([]byte, 8)
	n, err := server.Read(buf)
	require.NoError(t, err)
	require.Positive(t, n)
	assert.Equal(t, byte(tlsRecordHandshake), buf[0])
}
