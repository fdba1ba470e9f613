package termfix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want map[string]string
	}{
		{
			name: "warp",
			env:  map[string]string{"TERM_PROGRAM": "WarpTerminal", "TERM": "xterm-256color"},
			want: map[string]string{"TERM_PROGRAM": "WarpTerminal", "TERM": "dumb", "COLORTERM": "truecolor"},
		},
		{
			name: "azure pipelines without TERM",
			env:  map[string]string{"TF_BUILD": "True"},
			want: map[string]string{"TF_BUILD": "True", "TERM": "dumb"},
		},
		{
			name: "ci with TERM set",
			env:  map[string]string{"CI": "true", "TERM": "xterm"},
			want: map[string]string{"CI": "true", "TERM": "xterm"},
		},
		{
			name: "interactive",
			env:  map[string]string{"TERM": "xterm-256color"},
			want: map[string]string{"TERM": "xterm-256color"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := map[string]string{}
			for k, v := range tt.env {
				env[k] = v
			}
			apply(
				func(k string) string { return env[k] },
				func(k, v string) error { env[k] = v; return nil },
			)
			assert.Equal(t, tt.want, env)
		})
	}
}
