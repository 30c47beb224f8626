package redis

import (
	"testing"

	"github.com/quantfolio/advisor/pkg/config"
)

func TestNewClient_Disabled(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if client.Enabled() {
		t.Error("Expected client to be disabled")
	}
}

func TestCache_Disabled(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, _ := New(cfg)
	cache := NewCache(client, "test")

	// When Redis is disabled, cache operations should be no-ops
	var result string
	found, err := cache.Get(nil, "key", &result)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if found {
		t.Error("Expected cache miss when Redis disabled")
	}

	if err := cache.Set(nil, "key", "value", TTLShort); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := cache.Delete(nil, "key"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestCache_GetOrSetDisabled(t *testing.T) {
	cfg := &config.Config{
		Redis: config.RedisConfig{
			Enabled: false,
		},
	}

	client, _ := New(cfg)
	cache := NewCache(client, "test")

	// Disabled cache always misses, so fn runs every time
	var result string
	err := cache.GetOrSet(nil, "key", &result, TTLShort, func() (interface{}, error) {
		return "computed", nil
	})
	if err != nil {
		t.Fatalf("GetOrSet() error = %v", err)
	}
	if result != "computed" {
		t.Errorf("Expected result = computed, got %q", result)
	}
}

func TestCacheKeys(t *testing.T) {
	tests := []struct {
		name     string
		fn       func() string
		expected string
	}{
		{
			name:     "SignalKey",
			fn:       func() string { return SignalKey("SPY") },
			expected: "signal:latest:SPY",
		},
		{
			name:     "CorrelationKey",
			fn:       func() string { return CorrelationKey("2026-02-13") },
			expected: "correlation:2026-02-13",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}
