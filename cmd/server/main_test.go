package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/paiyou/paiyou/internal/config"
)

func TestCORSMiddleware_ConfiguredOrigins(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name   string
		cors   config.CORSConfig
		origin string
		want   string
	}{
		{"通配符放行", config.CORSConfig{Enabled: true, Origins: []string{"*"}}, "http://a.example.com", "*"},
		{"白名单内回显来源", config.CORSConfig{Enabled: true, Origins: []string{"http://a.example.com"}}, "http://a.example.com", "http://a.example.com"},
		{"白名单外不放行", config.CORSConfig{Enabled: true, Origins: []string{"http://a.example.com"}}, "http://evil.example.com", ""},
		{"禁用时不设置头", config.CORSConfig{Enabled: false, Origins: []string{"*"}}, "http://a.example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := corsMiddleware(tt.cors, inner)
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
				t.Errorf("Access-Control-Allow-Origin = %q, 期望 %q", got, tt.want)
			}
		})
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("预检请求不应到达业务处理器")
	})
	handler := corsMiddleware(config.CORSConfig{Enabled: true, Origins: []string{"*"}}, inner)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/solver/solve", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("预检状态码 = %d, 期望 200", rec.Code)
	}
}
