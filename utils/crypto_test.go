package utils

import (
	"bytes"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	plain := "abandon ability able about above absent absorb abstract absurd abuse access accident"

	enc, err := Encrypt([]byte(plain), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if enc == plain {
		t.Fatal("ciphertext equals plaintext")
	}

	dec, err := Decrypt(enc, key)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if dec != plain {
		t.Errorf("round trip mismatch: got %q", dec)
	}
}

func TestDecryptWrongKey(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	other := bytes.Repeat([]byte{0x43}, 32)

	enc, err := Encrypt([]byte("secret"), key)
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}
	if _, err := Decrypt(enc, other); err == nil {
		t.Error("expected decryption failure with wrong key")
	}
}

func TestDecryptPassthroughWithoutPrefix(t *testing.T) {
	key := bytes.Repeat([]byte{0x42}, 32)
	// Legacy plaintext values come back unchanged.
	got, err := Decrypt("plain-value", key)
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if got != "plain-value" {
		t.Errorf("passthrough = %q", got)
	}
}

func TestEncryptRejectsShortKey(t *testing.T) {
	if _, err := Encrypt([]byte("x"), []byte("short")); err == nil {
		t.Error("expected error for short key")
	}
}
