package push

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func TestGenerateVAPIDKeys(t *testing.T) {
	pub, priv, err := GenerateVAPIDKeys()
	if err != nil {
		t.Fatalf("generate VAPID keys: %v", err)
	}

	if pub == "" {
		t.Error("expected non-empty public key")
	}
	if priv == "" {
		t.Error("expected non-empty private key")
	}

	// Public key should be base64url-encoded, 65 bytes uncompressed P-256 point
	pubBytes, err := base64.RawURLEncoding.DecodeString(pub)
	if err != nil {
		t.Fatalf("decode public key: %v", err)
	}
	if len(pubBytes) != 65 {
		t.Errorf("public key length = %d, want 65", len(pubBytes))
	}

	// Private key should be base64url-encoded, 32 bytes P-256 scalar
	privBytes, err := base64.RawURLEncoding.DecodeString(priv)
	if err != nil {
		t.Fatalf("decode private key: %v", err)
	}
	if len(privBytes) != 32 {
		t.Errorf("private key length = %d, want 32", len(privBytes))
	}

	// Generate again, keys should differ
	pub2, _, _ := GenerateVAPIDKeys()
	if pub == pub2 {
		t.Error("expected different keys on second generation")
	}
}

func TestPayloadJSON(t *testing.T) {
	p := Payload{
		Title: "Chore ready for review",
		Body:  "Riley marked \"Dishes\" as done.",
		URL:   "/assignments/a1",
		Tag:   "assignment-review-a1",
		Data: map[string]string{
			"type":          "assignment_review",
			"assignment_id": "a1",
		},
	}

	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	var got Payload
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if got.Title != p.Title {
		t.Errorf("title = %q, want %q", got.Title, p.Title)
	}
	if got.Data["assignment_id"] != "a1" {
		t.Errorf("data assignment_id = %q, want %q", got.Data["assignment_id"], "a1")
	}
}

func TestVAPIDPublicKeyAccessor(t *testing.T) {
	svc := NewService("pub-key", "priv-key")
	if got := svc.VAPIDPublicKey(); got != "pub-key" {
		t.Errorf("public key = %q, want %q", got, "pub-key")
	}
}
