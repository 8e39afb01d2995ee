package grok_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logacu/acu-go/pkg/grok"
)

func TestBuiltin_SampleLines(t *testing.T) {
	e, err := grok.New()
	require.NoError(t, err)

	tests := []struct {
		name string
		expr string
		line string
		want map[string]string
	}{
		{
			name: "combined apache log",
			expr: "%{COMBINEDAPACHELOG}",
			line: `127.0.0.1 - frank [10/Oct/2000:13:55:36 -0700] "GET /apache_pb.gif HTTP/1.0" 200 2326 "http://www.example.com/start.html" "Mozilla/4.08 [en] (Win98; I ;Nav)"`,
			want: map[string]string{
				"clientip":    "127.0.0.1",
				"ident":       "-",
				"auth":        "frank",
				"timestamp":   "10/Oct/2000:13:55:36 -0700",
				"verb":        "GET",
				"request":     "/apache_pb.gif",
				"httpversion": "1.0",
				"response":    "200",
				"bytes":       "2326",
				"referrer":    `"http://www.example.com/start.html"`,
				"agent":       `"Mozilla/4.08 [en] (Win98; I ;Nav)"`,
			},
		},
		{
			name: "syslog base",
			expr: "%{SYSLOGBASE} %{GREEDYDATA:message}",
			line: "Mar  7 00:00:01 myhost sshd[1234]: Accepted publickey for root",
			want: map[string]string{
				"timestamp": "Mar  7 00:00:01",
				"logsource": "myhost",
				"program":   "sshd",
				"pid":       "1234",
				"message":   "Accepted publickey for root",
			},
		},
		{
			name: "iso timestamp and level",
			expr: "%{TIMESTAMP_ISO8601:ts} %{LOGLEVEL:level} %{GREEDYDATA:msg}",
			line: "2024-05-01T12:30:45Z ERROR connection refused",
			want: map[string]string{
				"ts":    "2024-05-01T12:30:45Z",
				"level": "ERROR",
				"msg":   "connection refused",
			},
		},
		{
			name: "ip and uri path",
			expr: "%{IP:client} %{WORD:method} %{URIPATHPARAM:path}",
			line: "55.3.244.1 GET /index.html?x=1",
			want: map[string]string{
				"client": "55.3.244.1",
				"method": "GET",
				"path":   "/index.html?x=1",
			},
		},
		{
			name: "inline group around template",
			expr: "user=(?<user>%{USERNAME}) id=%{UUID:id}",
			line: "user=jane.doe id=123e4567-e89b-12d3-a456-426614174000",
			want: map[string]string{
				"user": "jane.doe",
				"id":   "123e4567-e89b-12d3-a456-426614174000",
			},
		},
		{
			name: "linux tty",
			expr: "session on %{TTY:tty}",
			line: "session on /dev/pts/3",
			want: map[string]string{"tty": "/dev/pts/3"},
		},
		{
			name: "bsd tty",
			expr: "login on %{BSDTTY:tty} by %{USERNAME:user}",
			line: "login on /dev/ttyp0 by root",
			want: map[string]string{"tty": "/dev/ttyp0", "user": "root"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, text := e.Build(tt.expr)
			require.NotZero(t, id, "final expression: %s", text)

			fields, ok := e.Match(tt.line, id)
			require.True(t, ok)
			for k, v := range tt.want {
				assert.Equal(t, v, fields[k], "field %s", k)
			}
		})
	}
}

func TestBuiltin_DumpTypes(t *testing.T) {
	e, err := grok.New()
	require.NoError(t, err)

	id, _ := e.Build("%{NUMBER:duration}s %{INT:status} %{WORD:outcome}")
	require.NotZero(t, id)
	require.True(t, e.Parse("0.25s 503 failed", id))

	assert.Equal(t, map[string]any{
		"duration": 0.25,
		"status":   int64(503),
		"outcome":  "failed",
	}, e.Dump(id))
}
