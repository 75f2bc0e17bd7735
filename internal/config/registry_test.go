package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/muurk/wizlocal/internal/protocol"
)

func TestGetConfigDir(t *testing.T) {
	configDir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}

	// Should not be empty
	if configDir == "" {
		t.Error("GetConfigDir() returned empty string")
	}

	if !strings.Contains(configDir, "wizlocal") {
		t.Errorf("GetConfigDir() = %v, should contain 'wizlocal'", configDir)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		if !strings.Contains(configDir, "AppData") && !strings.Contains(configDir, "Local") {
			t.Errorf("Windows config dir should contain 'AppData' or 'Local', got: %v", configDir)
		}
	case "darwin":
		if !strings.Contains(configDir, ".config") {
			t.Errorf("macOS config dir should contain '.config', got: %v", configDir)
		}
	}

	t.Logf("Config directory: %s", configDir)
}

func TestGetConfigDirXDG(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		t.Skip("XDG_CONFIG_HOME only applies on Linux and other Unix systems")
	}
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir() error = %v", err)
	}
	if want := filepath.Join(dir, "wizlocal"); got != want {
		t.Errorf("GetConfigDir() = %v, want %v", got, want)
	}
}

func TestGetConfigPath(t *testing.T) {
	configPath, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() error = %v", err)
	}

	// Should end with config.yaml
	if filepath.Base(configPath) != "config.yaml" {
		t.Errorf("GetConfigPath() should end with 'config.yaml', got: %v", configPath)
	}
}

func TestNewRegistry(t *testing.T) {
	reg := NewRegistry()

	if reg.Version != 1 {
		t.Errorf("NewRegistry().Version = %v, want 1", reg.Version)
	}

	if reg.Lights == nil {
		t.Error("NewRegistry().Lights should not be nil")
	}

	if reg.Preferences == nil {
		t.Fatal("NewRegistry().Preferences should not be nil")
	}

	if reg.Preferences.Format != "detailed" {
		t.Errorf("NewRegistry().Preferences.Format = %v, want detailed", reg.Preferences.Format)
	}
}

func TestNormalizeMAC(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a8bb50a4f94d", "a8bb50a4f94d"},
		{"A8:BB:50:A4:F9:4D", "a8bb50a4f94d"},
		{"a8-bb-50-a4-f9-4d", "a8bb50a4f94d"},
		{" A8BB50A4F94D ", "a8bb50a4f94d"},
	}
	for _, tt := range tests {
		if got := NormalizeMAC(tt.in); got != tt.want {
			t.Errorf("NormalizeMAC(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRegistryEnsureLight(t *testing.T) {
	reg := NewRegistry()

	// First call should create the light
	light1 := reg.EnsureLight("a8bb50a4f94d")
	if light1 == nil {
		t.Fatal("EnsureLight() returned nil")
	}

	// Same MAC in another spelling returns the same light
	light2 := reg.EnsureLight("A8:BB:50:A4:F9:4D")
	if light1 != light2 {
		t.Error("EnsureLight() should return same instance for same MAC")
	}

	// Different MAC should create new light
	light3 := reg.EnsureLight("a8bb50a4f94e")
	if light1 == light3 {
		t.Error("EnsureLight() should create new instance for different MAC")
	}
}

func TestRegistryUpdateLightSeen(t *testing.T) {
	reg := NewRegistry()

	before := time.Now()
	reg.UpdateLightSeen("a8bb50a4f94d", "192.168.1.100")
	after := time.Now()

	light := reg.GetLight("a8bb50a4f94d")
	if light == nil {
		t.Fatal("Light should exist after UpdateLightSeen()")
	}

	if light.LastIP != "192.168.1.100" {
		t.Errorf("LastIP = %v, want 192.168.1.100", light.LastIP)
	}

	if light.LastSeen.Before(before) || light.LastSeen.After(after) {
		t.Errorf("LastSeen = %v, should be between %v and %v", light.LastSeen, before, after)
	}
}

func TestRegistryRecordPush(t *testing.T) {
	reg := NewRegistry()
	seen := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	ok := reg.RecordPush(&protocol.SyncPilot{
		Method: protocol.MethodSyncPilot,
		Params: protocol.PilotState{
			Mac:     "a8bb50a4f94d",
			State:   protocol.Bool(true),
			Temp:    protocol.Int(2700),
			Dimming: protocol.Int(80),
			Rssi:    protocol.Int(-58),
		},
		Timestamp: seen,
		IP:        "192.168.1.40",
	})
	if !ok {
		t.Fatal("RecordPush() = false, want true")
	}

	light := reg.GetLight("a8bb50a4f94d")
	if light == nil || light.LastState == nil {
		t.Fatal("push was not recorded")
	}
	if light.LastIP != "192.168.1.40" || !light.LastSeen.Equal(seen) {
		t.Errorf("light = %+v", light)
	}
	want := LightState{On: true, Mode: "white 2700K", Dimming: 80, Rssi: -58}
	if *light.LastState != want {
		t.Errorf("LastState = %+v, want %+v", *light.LastState, want)
	}

	if reg.RecordPush(&protocol.SyncPilot{}) {
		t.Error("RecordPush() without MAC should be ignored")
	}
}

func TestRegistryRecordFirstBeatAndSystemConfig(t *testing.T) {
	reg := NewRegistry()

	reg.RecordFirstBeat(&protocol.FirstBeat{Params: protocol.FirstBeatParams{Mac: "a8bb50a4f94d", FwVersion: "1.22.0"}}, "10.0.0.5")
	reg.RecordSystemConfig(protocol.SystemConfig{Mac: "a8bb50a4f94d", HomeID: 7, ModuleName: "ESP01_SHRGB1C_31", FwVersion: "1.25.0"}, "10.0.0.6")

	light := reg.GetLight("a8bb50a4f94d")
	if light.LastIP != "10.0.0.6" || light.FwVersion != "1.25.0" || light.HomeID != 7 || light.ModuleName != "ESP01_SHRGB1C_31" {
		t.Errorf("light = %+v", light)
	}
}

func TestRegistryResolveTarget(t *testing.T) {
	reg := NewRegistry()
	reg.UpdateLightSeen("a8bb50a4f94d", "192.168.1.40")
	reg.SetLightNickname("a8bb50a4f94d", "Desk Lamp")
	reg.SetLightNickname("a8bb50a4f94e", "Hallway")

	tests := []struct {
		target  string
		want    string
		wantErr bool
	}{
		{"192.168.1.99", "192.168.1.99", false},
		{"desk lamp", "192.168.1.40", false},
		{"A8:BB:50:A4:F9:4D", "192.168.1.40", false},
		{"Hallway", "", true}, // known but never seen
		{"kitchen", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := reg.ResolveTarget(tt.target)
		if (err != nil) != tt.wantErr {
			t.Errorf("ResolveTarget(%q) error = %v, wantErr %v", tt.target, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ResolveTarget(%q) = %q, want %q", tt.target, got, tt.want)
		}
	}
}

func TestRegistryRemoveLightAndMACs(t *testing.T) {
	reg := NewRegistry()
	reg.EnsureLight("bbbbbbbbbbbb")
	reg.EnsureLight("aaaaaaaaaaaa")

	macs := reg.MACs()
	if len(macs) != 2 || macs[0] != "aaaaaaaaaaaa" {
		t.Errorf("MACs() = %v", macs)
	}
	if !reg.RemoveLight("AA:AA:AA:AA:AA:AA") {
		t.Error("RemoveLight() = false for known light")
	}
	if reg.RemoveLight("aaaaaaaaaaaa") {
		t.Error("RemoveLight() = true for removed light")
	}
}

func TestRegistrySaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	reg := NewRegistry()
	reg.SetLightNickname("a8bb50a4f94d", "Desk Lamp")
	reg.UpdateLightSeen("a8bb50a4f94d", "192.168.1.40")
	reg.Preferences.Interface = "eth0"

	if err := reg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo() error = %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	loaded, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}

	light := loaded.GetLight("a8bb50a4f94d")
	if light == nil {
		t.Fatal("Light should exist in loaded registry")
	}
	if light.Nickname != "Desk Lamp" || light.LastIP != "192.168.1.40" {
		t.Errorf("loaded light = %+v", light)
	}
	if loaded.Preferences.Interface != "eth0" {
		t.Errorf("loaded interface = %q, want eth0", loaded.Preferences.Interface)
	}
}

func TestLoadRegistryFromMissingFile(t *testing.T) {
	reg, err := LoadRegistryFrom(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.Version != 1 || reg.Lights == nil {
		t.Errorf("expected default registry, got %+v", reg)
	}
}

func TestLoadRegistryRejectsVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("version: 2\n"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRegistryFrom(path); err == nil || !strings.Contains(err.Error(), "unsupported config version") {
		t.Errorf("LoadRegistryFrom() error = %v, want unsupported version", err)
	}
}

func TestLoadRegistryFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `version: 1
lights:
  a8bb50a4f94d:
    nickname: Desk Lamp
    last_ip: 192.168.1.40
`
	if err := os.WriteFile(path, []byte(data), 0600); err != nil {
		t.Fatal(err)
	}
	reg, err := LoadRegistryFrom(path)
	if err != nil {
		t.Fatalf("LoadRegistryFrom() error = %v", err)
	}
	if reg.Preferences == nil || reg.Preferences.ServeAddr != defaultServeAddr {
		t.Errorf("Preferences = %+v, want defaults", reg.Preferences)
	}
	if ip, _ := reg.ResolveTarget("Desk Lamp"); ip != "192.168.1.40" {
		t.Errorf("ResolveTarget() = %q", ip)
	}
}

// Benchmark tests

func BenchmarkGetConfigDir(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = GetConfigDir()
	}
}

func BenchmarkEnsureLight(b *testing.B) {
	reg := NewRegistry()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		reg.EnsureLight("a8bb50a4f94d")
	}
}
