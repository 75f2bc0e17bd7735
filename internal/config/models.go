package config

import (
	"fmt"
	"net"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/muurk/wizlocal/internal/protocol"
)

// Registry represents the entire user configuration file.
// This stores what is known about each light and application preferences.
type Registry struct {
	Version     int               `yaml:"version"`
	Lights      map[string]*Light `yaml:"lights,omitempty"` // Keyed by normalized MAC
	Preferences *Preferences      `yaml:"preferences,omitempty"`

	mu sync.Mutex
}

// Light represents what the controller remembers about a single light.
type Light struct {
	Nickname   string      `yaml:"nickname,omitempty" json:"nickname,omitempty"`      // User-friendly name
	LastIP     string      `yaml:"last_ip,omitempty" json:"lastIP,omitempty"`         // Last known IP address
	LastSeen   time.Time   `yaml:"last_seen,omitempty" json:"lastSeen,omitzero"`      // Last push or reply
	ModuleName string      `yaml:"module_name,omitempty" json:"moduleName,omitempty"` // From getSystemConfig
	FwVersion  string      `yaml:"fw_version,omitempty" json:"fwVersion,omitempty"`   // From firstBeat or getSystemConfig
	HomeID     int         `yaml:"home_id,omitempty" json:"homeID,omitempty"`
	LastState  *LightState `yaml:"last_state,omitempty" json:"lastState,omitempty"`
}

// LightState is a summary of the last pilot state a light pushed
type LightState struct {
	On      bool   `yaml:"on" json:"on"`
	Mode    string `yaml:"mode,omitempty" json:"mode,omitempty"`
	Dimming int    `yaml:"dimming,omitempty" json:"dimming,omitempty"`
	Rssi    int    `yaml:"rssi,omitempty" json:"rssi,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	Interface string `yaml:"interface,omitempty"`  // Network interface to bind
	LogLevel  string `yaml:"log_level,omitempty"`  // Default --log-level
	Format    string `yaml:"format,omitempty"`     // Default --format
	ServeAddr string `yaml:"serve_addr,omitempty"` // Default address for the event bridge
}

const defaultServeAddr = "127.0.0.1:8338"

func defaultPreferences() *Preferences {
	return &Preferences{
		Format:    "detailed",
		ServeAddr: defaultServeAddr,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Lights:      make(map[string]*Light),
		Preferences: defaultPreferences(),
	}
}

// NormalizeMAC lowercases a MAC and strips separators
func NormalizeMAC(mac string) string {
	mac = strings.ToLower(strings.TrimSpace(mac))
	return strings.NewReplacer(":", "", "-", "", ".", "").Replace(mac)
}

// GetLight retrieves light metadata by MAC.
// Returns nil if the light doesn't exist in the registry.
func (r *Registry) GetLight(mac string) *Light {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.Lights[NormalizeMAC(mac)]
}

// EnsureLight ensures a light entry exists in the registry and returns it.
func (r *Registry) EnsureLight(mac string) *Light {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureLight(mac)
}

func (r *Registry) ensureLight(mac string) *Light {
	if r.Lights == nil {
		r.Lights = make(map[string]*Light)
	}
	key := NormalizeMAC(mac)
	if light, exists := r.Lights[key]; exists {
		return light
	}
	light := &Light{}
	r.Lights[key] = light
	return light
}

// UpdateLightSeen updates the last seen timestamp and IP for a light.
func (r *Registry) UpdateLightSeen(mac, ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	light := r.ensureLight(mac)
	light.LastSeen = time.Now()
	light.LastIP = ip
}

// RecordPush stores a syncPilot push. Pushes without a MAC are ignored.
func (r *Registry) RecordPush(msg *protocol.SyncPilot) bool {
	if msg.Params.Mac == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	light := r.ensureLight(msg.Params.Mac)
	light.LastIP = msg.IP
	light.LastSeen = msg.Timestamp
	if light.LastSeen.IsZero() {
		light.LastSeen = time.Now()
	}

	state := &LightState{On: msg.Params.IsOn(), Mode: msg.Params.Mode()}
	if msg.Params.Dimming != nil {
		state.Dimming = *msg.Params.Dimming
	}
	if msg.Params.Rssi != nil {
		state.Rssi = *msg.Params.Rssi
	}
	light.LastState = state
	return true
}

// RecordFirstBeat stores a boot announcement
func (r *Registry) RecordFirstBeat(msg *protocol.FirstBeat, ip string) bool {
	if msg.Params.Mac == "" {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	light := r.ensureLight(msg.Params.Mac)
	light.LastIP = ip
	light.LastSeen = time.Now()
	if msg.Params.FwVersion != "" {
		light.FwVersion = msg.Params.FwVersion
	}
	light.HomeID = msg.Params.HomeID
	return true
}

// RecordSystemConfig stores identity details from getSystemConfig
func (r *Registry) RecordSystemConfig(cfg protocol.SystemConfig, ip string) {
	if cfg.Mac == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	light := r.ensureLight(cfg.Mac)
	light.LastIP = ip
	light.LastSeen = time.Now()
	light.ModuleName = cfg.ModuleName
	light.FwVersion = cfg.FwVersion
	light.HomeID = cfg.HomeID
}

// SetLightNickname sets a user-friendly nickname for a light.
func (r *Registry) SetLightNickname(mac, nickname string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ensureLight(mac).Nickname = nickname
}

// RemoveLight forgets a light. It reports whether the light was known.
func (r *Registry) RemoveLight(mac string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := NormalizeMAC(mac)
	if _, ok := r.Lights[key]; !ok {
		return false
	}
	delete(r.Lights, key)
	return true
}

// MACs returns the known MACs in sorted order
func (r *Registry) MACs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	macs := make([]string, 0, len(r.Lights))
	for mac := range r.Lights {
		macs = append(macs, mac)
	}
	sort.Strings(macs)
	return macs
}

// ResolveTarget turns a command target into an IP address. The target may be
// an IP, a MAC or a nickname (case-insensitive).
func (r *Registry) ResolveTarget(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("no light specified")
	}
	if ip := net.ParseIP(target); ip != nil && ip.To4() != nil {
		return ip.String(), nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	light, ok := r.Lights[NormalizeMAC(target)]
	if !ok {
		for _, l := range r.Lights {
			if l.Nickname != "" && strings.EqualFold(l.Nickname, target) {
				light, ok = l, true
				break
			}
		}
	}
	if !ok {
		return "", fmt.Errorf("unknown light %q (use an IP address, MAC or nickname)", target)
	}
	if light.LastIP == "" {
		return "", fmt.Errorf("light %q has no known IP address yet", target)
	}
	return light.LastIP, nil
}
