package security

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinRate(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d rejected within the rate", i+1)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Error("request beyond the rate was allowed")
	}
	if !rl.Allow("5.6.7.8") {
		t.Error("a different IP was rejected")
	}
}

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5000"
	if got := GetClientIP(r); got != "10.0.0.1:5000" {
		t.Errorf("GetClientIP() = %q, want RemoteAddr", got)
	}

	r.Header.Set("X-Real-IP", "2.2.2.2")
	if got := GetClientIP(r); got != "2.2.2.2" {
		t.Errorf("GetClientIP() = %q, want X-Real-IP", got)
	}

	r.Header.Set("X-Forwarded-For", "3.3.3.3")
	if got := GetClientIP(r); got != "3.3.3.3" {
		t.Errorf("GetClientIP() = %q, want X-Forwarded-For", got)
	}
}
