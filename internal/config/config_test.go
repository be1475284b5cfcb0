package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		GinMode:            "release",
		LoginRatePerMinute: 30,
		MaxDBConns:         16,
		JWTSecret:          strings.Repeat("s", 40),
		JWTExpiry:          12 * time.Hour,
		BcryptCost:         10,
		DocumentDir:        "./storage",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"placeholder secret in release", func(c *Config) { c.JWTSecret = defaultJWTSecret }, "JWT_SECRET"},
		{"placeholder secret in debug", func(c *Config) { c.GinMode = "debug"; c.JWTSecret = defaultJWTSecret }, ""},
		{"bcrypt cost too low", func(c *Config) { c.BcryptCost = 2 }, "BCRYPT_COST"},
		{"no db connections", func(c *Config) { c.MaxDBConns = 0 }, "MAX_DB_CONNS"},
		{"no document dir", func(c *Config) { c.DocumentDir = " " }, "DOCUMENT_DIR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" https://erp.college.edu , ,http://localhost:5173")
	if len(got) != 2 || got[0] != "https://erp.college.edu" || got[1] != "http://localhost:5173" {
		t.Errorf("splitList = %v", got)
	}
	if splitList("") != nil {
		t.Error("empty input should yield nil")
	}
}
