package wsc

import (
	"os"
	"testing"
)

func setEnvAndCleanup(t *testing.T, key, value string) {
	t.Helper()
	old, had := os.LookupEnv(key)
	os.Setenv(key, value)
	t.Cleanup(func() {
		if had {
			os.Setenv(key, old)
		} else {
			os.Unsetenv(key)
		}
	})
}

func TestLoadConfigDerivesUUIDEFromMAC(t *testing.T) {
	setEnvAndCleanup(t, "WSC_ENROLLEEMAC", "00:11:22:33:44:55")
	setEnvAndCleanup(t, "WSC_DEVICEPASSWORD", "12345678")

	id, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if id.MAC != [6]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55} {
		t.Errorf("MAC = %x", id.MAC)
	}

	again, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig (again): %v", err)
	}
	if id.UUIDE != again.UUIDE {
		t.Error("UUID-E is not deterministic for the same MAC")
	}
}

func TestLoadConfigUppercasesHexDevicePassword(t *testing.T) {
	setEnvAndCleanup(t, "WSC_ENROLLEEMAC", "aabbccddeeff")
	setEnvAndCleanup(t, "WSC_DEVICEPASSWORD", "deadbeef")

	id, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if string(id.DevicePassword) != "DEADBEEF" {
		t.Errorf("DevicePassword = %q, want %q", id.DevicePassword, "DEADBEEF")
	}
}

func TestLoadConfigRejectsNonHexPassword(t *testing.T) {
	setEnvAndCleanup(t, "WSC_ENROLLEEMAC", "aabbccddeeff")
	setEnvAndCleanup(t, "WSC_DEVICEPASSWORD", "correct horse battery staple")

	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected error for non-hex device password")
	}
}

func TestLoadConfigRejectsBadMAC(t *testing.T) {
	setEnvAndCleanup(t, "WSC_ENROLLEEMAC", "not-a-mac")
	setEnvAndCleanup(t, "WSC_DEVICEPASSWORD", "12345678")

	if _, err := LoadConfig(""); err == nil {
		t.Fatal("expected error for malformed MAC")
	}
}

func TestLoadConfigDefaultsEmptyPassword(t *testing.T) {
	setEnvAndCleanup(t, "WSC_ENROLLEEMAC", "aabbccddeeff")
	setEnvAndCleanup(t, "WSC_DEVICEPASSWORD", "")

	id, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if string(id.DevicePassword) != "00000000" {
		t.Errorf("DevicePassword = %q, want %q", id.DevicePassword, "00000000")
	}
}
