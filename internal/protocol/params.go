package protocol

import (
	"net"
	"strconv"
)

// RegistrationParams asks a light to push state to the controller
type RegistrationParams struct {
	PhoneIP  string `json:"phoneIp"`
	Register bool   `json:"register"`
	PhoneMac string `json:"phoneMac"`
}

func (p RegistrationParams) check(_ ValidateOptions) []FieldError {
	var errs []FieldError
	if ip := net.ParseIP(p.PhoneIP); ip == nil || ip.To4() == nil {
		errs = append(errs, FieldError{Field: "phoneIp", Message: "must be an IPv4 address, got " + quoteOrEmpty(p.PhoneIP)})
	}
	if err := ValidateMAC(p.PhoneMac); err != nil {
		errs = append(errs, FieldError{Field: "phoneMac", Message: err.Error()})
	}
	return errs
}

// AckResult is the result body of a syncPilot acknowledgement
type AckResult struct {
	Mac string `json:"mac"`
}

// EmptyParams is sent with commands that take no arguments
type EmptyParams struct{}

// PilotParams is the body of setPilot. Every field is optional on the wire;
// builders mark the fields their mode needs as required.
type PilotParams struct {
	State   *bool `json:"state,omitempty"`
	SceneID *int  `json:"sceneId,omitempty"`
	Speed   *int  `json:"speed,omitempty"`
	Temp    *int  `json:"temp,omitempty"`
	Dimming *int  `json:"dimming,omitempty"`
	R       *int  `json:"r,omitempty"`
	G       *int  `json:"g,omitempty"`
	B       *int  `json:"b,omitempty"`
	C       *int  `json:"c,omitempty"`
	W       *int  `json:"w,omitempty"`

	required []string
}

var pilotRules = []Rule{
	StateRule, SceneRule, SpeedRule, TemperatureRule, DimmingRule,
	RedRule, GreenRule, BlueRule, ColdWhiteRule, WarmWhiteRule,
}

func (p PilotParams) rules() []Rule {
	return markRequired(pilotRules, p.required)
}

func (p PilotParams) values() map[string]*int {
	var state *int
	if p.State != nil {
		v := 0
		if *p.State {
			v = 1
		}
		state = &v
	}
	return map[string]*int{
		"state":   state,
		"sceneId": p.SceneID,
		"speed":   p.Speed,
		"temp":    p.Temp,
		"dimming": p.Dimming,
		"r":       p.R,
		"g":       p.G,
		"b":       p.B,
		"c":       p.C,
		"w":       p.W,
	}
}

func (p PilotParams) check(opts ValidateOptions) []FieldError {
	var errs []FieldError
	if p.SceneID != nil {
		scene, ok := SceneByID(*p.SceneID)
		switch {
		case !ok:
			errs = append(errs, FieldError{Field: "sceneId", Message: "unknown scene " + strconv.Itoa(*p.SceneID)})
		case p.Speed != nil && !scene.SupportsSpeed:
			errs = append(errs, FieldError{Field: "speed", Message: "scene " + scene.Name + " does not support speed"})
		}
	}
	if !opts.SkipMissingProperties && p.isEmpty() {
		errs = append(errs, FieldError{Field: "params", Message: "at least one field must be set"})
	}
	return errs
}

func (p PilotParams) isEmpty() bool {
	for _, v := range p.values() {
		if v != nil {
			return false
		}
	}
	return true
}

// SystemConfigParams is the body of setSystemConfig
type SystemConfigParams struct {
	HomeID  *int `json:"homeId,omitempty"`
	RoomID  *int `json:"roomId,omitempty"`
	GroupID *int `json:"groupId,omitempty"`
}

func (p SystemConfigParams) rules() []Rule {
	return []Rule{HomeIDRule, RoomIDRule, GroupIDRule}
}

func (p SystemConfigParams) values() map[string]*int {
	return map[string]*int{"homeId": p.HomeID, "roomId": p.RoomID, "groupId": p.GroupID}
}

func (p SystemConfigParams) check(opts ValidateOptions) []FieldError {
	if !opts.SkipMissingProperties && p.HomeID == nil && p.RoomID == nil && p.GroupID == nil {
		return []FieldError{{Field: "params", Message: "at least one field must be set"}}
	}
	return nil
}

// UserConfigParams is the body of setUserConfig
type UserConfigParams struct {
	FadeIn     *int  `json:"fadeIn,omitempty"`
	FadeOut    *int  `json:"fadeOut,omitempty"`
	FadeNight  *bool `json:"fadeNight,omitempty"`
	DftDim     *int  `json:"dftDim,omitempty"`
	PwmRange   []int `json:"pwmRange,omitempty"`
	WhiteRange []int `json:"whiteRange,omitempty"`
	ExtRange   []int `json:"extRange,omitempty"`
	Po         *bool `json:"po,omitempty"`
}

func (p UserConfigParams) rules() []Rule {
	return []Rule{FadeInRule, FadeOutRule, DefaultDimmingRule}
}

func (p UserConfigParams) values() map[string]*int {
	return map[string]*int{"fadeIn": p.FadeIn, "fadeOut": p.FadeOut, "dftDim": p.DftDim}
}

func (p UserConfigParams) check(_ ValidateOptions) []FieldError {
	var errs []FieldError
	errs = append(errs, checkRange(pwmRangeRule, p.PwmRange)...)
	errs = append(errs, checkRange(whiteRangeRule, p.WhiteRange)...)
	errs = append(errs, checkRange(extRangeRule, p.ExtRange)...)
	return errs
}

// ModelConfigParams is the body of setModelConfig
type ModelConfigParams struct {
	Ps           *int  `json:"ps,omitempty"`
	PwmFreq      *int  `json:"pwmFreq,omitempty"`
	PwmRange     []int `json:"pwmRange,omitempty"`
	Wcr          *int  `json:"wcr,omitempty"`
	Nowc         *int  `json:"nowc,omitempty"`
	CctRange     []int `json:"cctRange,omitempty"`
	RenderFactor []int `json:"renderFactor,omitempty"`
}

func (p ModelConfigParams) rules() []Rule {
	return []Rule{PowerSupplyRule, PwmFrequencyRule, WhiteRatioRule, WhiteChannelsRule}
}

func (p ModelConfigParams) values() map[string]*int {
	return map[string]*int{"ps": p.Ps, "pwmFreq": p.PwmFreq, "wcr": p.Wcr, "nowc": p.Nowc}
}

func (p ModelConfigParams) check(_ ValidateOptions) []FieldError {
	var errs []FieldError
	errs = append(errs, checkRange(pwmRangeRule, p.PwmRange)...)
	errs = append(errs, checkRange(cctRangeRule, p.CctRange)...)
	errs = append(errs, checkRange(renderFactorRule, p.RenderFactor)...)
	return errs
}

// FirmwareParams is the body of updateOta
type FirmwareParams struct {
	Fw string `json:"fw"`
}

func (p FirmwareParams) check(_ ValidateOptions) []FieldError {
	if p.Fw == "" {
		return []FieldError{{Field: "fw", Message: "is required"}}
	}
	return nil
}

// Int returns a pointer to v, for building partial params
func Int(v int) *int { return &v }

// Bool returns a pointer to v, for building partial params
func Bool(v bool) *bool { return &v }

func quoteOrEmpty(s string) string {
	if s == "" {
		return "empty string"
	}
	return `"` + s + `"`
}
