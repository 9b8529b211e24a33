package utils

import "testing"

func TestGetEnv(t *testing.T) {
	t.Setenv("CRM_TEST_STRING", "hello")
	if got := GetEnv("CRM_TEST_STRING", "fallback", nil); got != "hello" {
		t.Errorf("GetEnv returned %q, want %q", got, "hello")
	}
	if got := GetEnv("CRM_TEST_STRING_MISSING", "fallback", nil); got != "fallback" {
		t.Errorf("GetEnv returned %q, want fallback", got)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("CRM_TEST_INT", "42")
	if got := GetEnvAsInt("CRM_TEST_INT", 7, nil); got != 42 {
		t.Errorf("GetEnvAsInt returned %d, want 42", got)
	}
	t.Setenv("CRM_TEST_INT", "not-a-number")
	if got := GetEnvAsInt("CRM_TEST_INT", 7, nil); got != 7 {
		t.Errorf("GetEnvAsInt returned %d, want default 7", got)
	}
	if got := GetEnvAsInt("CRM_TEST_INT_MISSING", 7, nil); got != 7 {
		t.Errorf("GetEnvAsInt returned %d, want default 7", got)
	}
}
