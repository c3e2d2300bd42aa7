package cookies

import (
	"testing"
)

func TestJarRoundTrip(t *testing.T) {
	const serverURL = "https://api.mephub.lk"

	jar, err := NewJar(serverURL, "stored-session-value")
	if err != nil {
		t.Fatalf("failed to build jar: %v", err)
	}

	value, err := SessionValue(jar, serverURL)
	if err != nil {
		t.Fatalf("failed to read jar: %v", err)
	}
	if value != "stored-session-value" {
		t.Errorf("value = %q", value)
	}
}

func TestEmptyJar(t *testing.T) {
	jar, err := NewJar("http://localhost:8080", "")
	if err != nil {
		t.Fatalf("failed to build jar: %v", err)
	}

	value, err := SessionValue(jar, "http://localhost:8080")
	if err != nil {
		t.Fatalf("failed to read jar: %v", err)
	}
	if value != "" {
		t.Errorf("expected empty value, got %q", value)
	}
}

func TestNewJarRejectsBadURL(t *testing.T) {
	if _, err := NewJar("://not-a-url", "value"); err == nil {
		t.Error("expected error for invalid URL")
	}
}
