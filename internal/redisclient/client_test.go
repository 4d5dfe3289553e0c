package redisclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_Timeouts(t *testing.T) {
	tests := []struct {
		name string
		in   time.Duration
		want time.Duration
	}{
		{name: "default", in: 0, want: defaultTimeout},
		{name: "negative", in: -time.Second, want: defaultTimeout},
		{name: "configured", in: 750 * time.Millisecond, want: 750 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Config{Addr: "127.0.0.1:6379", DB: 3, Timeout: tt.in})
			defer c.Close()

			opts := c.Raw().Options()
			assert.Equal(t, tt.want, opts.DialTimeout)
			assert.Equal(t, tt.want, opts.ReadTimeout)
			assert.Equal(t, tt.want, opts.WriteTimeout)
			assert.Equal(t, 3, opts.DB)
		})
	}
}
