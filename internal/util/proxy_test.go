package util

import (
	"net/http"
	"testing"
	"time"

	"github.com/ppiankov/driftchain/internal/model"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy:3128", "http://secure-proxy:3128", "localhost, .internal.example, 10.0.0.0/8")

	tests := []struct {
		url  string
		want string
	}{
		{"https://translate.googleapis.com/translate_a/single", "http://secure-proxy:3128"},
		{"http://api.mymemory.translated.net/get", "http://proxy:3128"},
		{"http://localhost:11434/api/generate", ""},
		{"http://ollama.internal.example/api/generate", ""},
		{"http://10.1.2.3:5000/translate", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodGet, tt.url, nil)
			if err != nil {
				t.Fatal(err)
			}
			got, err := proxy(req)
			if err != nil {
				t.Fatalf("proxy returned error: %v", err)
			}
			if tt.want == "" {
				if got != nil {
					t.Errorf("expected no proxy, got %s", got)
				}
				return
			}
			if got == nil || got.String() != tt.want {
				t.Errorf("expected %s, got %v", tt.want, got)
			}
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient(model.HTTPConfig{Timeout: 7 * time.Second})
	if client.Timeout != 7*time.Second {
		t.Errorf("expected 7s timeout, got %v", client.Timeout)
	}
	if client.Transport == nil {
		t.Error("expected a transport")
	}
}
