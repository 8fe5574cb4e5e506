package credentialstore

import "testing"

func TestKeyCombinesPluginAndFieldName(t *testing.T) {
	got := key("discord-bridge", "api_token")
	want := "discord-bridge/api_token"
	if got != want {
		t.Fatalf("key() = %q, want %q", got, want)
	}
}

// Set/Get/Delete round-trip against the real OS keyring are intentionally
// not exercised here: they require a functioning keyring backend (e.g.
// Secret Service over D-Bus) that is not guaranteed to be present in a
// CI sandbox, and go-keyring has its own backend test suite for that.
