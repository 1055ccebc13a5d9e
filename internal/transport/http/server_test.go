package httptransport

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewServerAppliesDefaults(t *testing.T) {
	server := NewServer(ServerConfig{Address: ":9999"}, http.NewServeMux())

	require.Equal(t, ":9999", server.Addr)
	require.Equal(t, defaultReadTimeout, server.ReadTimeout)
	require.Equal(t, defaultWriteTimeout, server.WriteTimeout)
	require.Equal(t, defaultIdleTimeout, server.IdleTimeout)
}

func TestNewServerKeepsExplicitTimeouts(t *testing.T) {
	server := NewServer(ServerConfig{ReadTimeout: time.Second}, nil)
	require.Equal(t, time.Second, server.ReadTimeout)
}
