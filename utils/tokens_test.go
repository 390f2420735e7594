package utils

import (
	"strings"
	"testing"
)

func TestGenerateShortToken(t *testing.T) {
	const hexDigits = "0123456789abcdef"

	token := GenerateShortToken(16)
	if len(token) != 32 {
		t.Fatalf("len = %d, want 32", len(token))
	}
	for _, c := range token {
		if !strings.ContainsRune(hexDigits, c) {
			t.Fatalf("token %q contains non-hex character %q", token, c)
		}
	}

	if other := GenerateShortToken(16); other == token {
		t.Error("two tokens came out identical")
	}

	if short := GenerateShortToken(4); len(short) != 8 {
		t.Errorf("len = %d, want 8", len(short))
	}
}
