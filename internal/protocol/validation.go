package protocol

import (
	"errors"
	"fmt"
	"math"
	"net"
	"strings"
)

// Rule constrains one integer field of a message's params
type Rule struct {
	Field    string
	Min      int
	Max      int
	Required bool
}

// Field rules shared by the params types. Builders mark the fields they need
// as required; everything else is range-checked only when present.
var (
	StateRule          = Rule{Field: "state", Min: 0, Max: 1}
	DimmingRule        = Rule{Field: "dimming", Min: 10, Max: 100}
	TemperatureRule    = Rule{Field: "temp", Min: 1000, Max: 10000}
	SpeedRule          = Rule{Field: "speed", Min: 10, Max: 200}
	SceneRule          = Rule{Field: "sceneId", Min: 1, Max: RhythmSceneID}
	RedRule            = Rule{Field: "r", Min: 0, Max: 255}
	GreenRule          = Rule{Field: "g", Min: 0, Max: 255}
	BlueRule           = Rule{Field: "b", Min: 0, Max: 255}
	ColdWhiteRule      = Rule{Field: "c", Min: 0, Max: 255}
	WarmWhiteRule      = Rule{Field: "w", Min: 0, Max: 255}
	HomeIDRule         = Rule{Field: "homeId", Min: 0, Max: math.MaxInt32}
	RoomIDRule         = Rule{Field: "roomId", Min: 0, Max: math.MaxInt32}
	GroupIDRule        = Rule{Field: "groupId", Min: 0, Max: math.MaxInt32}
	FadeInRule         = Rule{Field: "fadeIn", Min: 0, Max: 60000}
	FadeOutRule        = Rule{Field: "fadeOut", Min: 0, Max: 60000}
	DefaultDimmingRule = Rule{Field: "dftDim", Min: 10, Max: 100}
	PowerSupplyRule    = Rule{Field: "ps", Min: 1, Max: 2}
	PwmFrequencyRule   = Rule{Field: "pwmFreq", Min: 100, Max: 20000}
	WhiteRatioRule     = Rule{Field: "wcr", Min: 0, Max: 100}
	WhiteChannelsRule  = Rule{Field: "nowc", Min: 0, Max: 3}
)

// rangeRule constrains a fixed-length list of integers
type rangeRule struct {
	field     string
	length    int
	min       int
	max       int
	ascending bool
}

var (
	pwmRangeRule     = rangeRule{field: "pwmRange", length: 2, min: 0, max: 100, ascending: true}
	whiteRangeRule   = rangeRule{field: "whiteRange", length: 2, min: 1000, max: 10000, ascending: true}
	extRangeRule     = rangeRule{field: "extRange", length: 2, min: 1000, max: 10000, ascending: true}
	cctRangeRule     = rangeRule{field: "cctRange", length: 4, min: 1000, max: 10000, ascending: true}
	renderFactorRule = rangeRule{field: "renderFactor", length: 10, min: 0, max: 255}
)

// FieldError describes one invalid field
type FieldError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e FieldError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationError is returned when an outbound message fails validation.
// It is raised before any network I/O.
type ValidationError struct {
	Method string
	Errors []FieldError
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Error())
	}
	if e.Method == "" {
		return "invalid message: " + strings.Join(parts, "; ")
	}
	return fmt.Sprintf("invalid %s message: %s", e.Method, strings.Join(parts, "; "))
}

// HasField reports whether field is among the failing fields
func (e *ValidationError) HasField(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// ValidateOptions controls Validate
type ValidateOptions struct {
	// SkipMissingProperties ignores absent fields, including required ones.
	// Used for partial updates.
	SkipMissingProperties bool
}

// ruled is implemented by params types with integer field rules
type ruled interface {
	rules() []Rule
	values() map[string]*int
}

// checker is implemented by params types with rules that do not fit Rule
type checker interface {
	check(opts ValidateOptions) []FieldError
}

// Validate checks a message's shape and field ranges.
// Returns nil or a *ValidationError.
func Validate(msg *Message, opts ValidateOptions) error {
	if msg == nil {
		return &ValidationError{Errors: []FieldError{{Field: "message", Message: "is required"}}}
	}

	var errs []FieldError
	if msg.Method == "" {
		errs = append(errs, FieldError{Field: "method", Message: "is required"})
	}
	if msg.Version != ProtocolVersion {
		errs = append(errs, FieldError{Field: "version", Message: fmt.Sprintf("must be %d, got %d", ProtocolVersion, msg.Version)})
	}
	if msg.ID < 1 {
		errs = append(errs, FieldError{Field: "id", Message: fmt.Sprintf("must be positive, got %d", msg.ID)})
	}

	if p, ok := msg.Params.(ruled); ok {
		errs = append(errs, CheckRules(p.rules(), p.values(), opts)...)
	}
	if c, ok := msg.Params.(checker); ok {
		errs = append(errs, c.check(opts)...)
	}

	if len(errs) > 0 {
		return &ValidationError{Method: msg.Method, Errors: errs}
	}
	return nil
}

// CheckRules applies rules to a set of field values. A nil value is a missing
// field.
func CheckRules(rules []Rule, values map[string]*int, opts ValidateOptions) []FieldError {
	var errs []FieldError
	for _, rule := range rules {
		v := values[rule.Field]
		if v == nil {
			if rule.Required && !opts.SkipMissingProperties {
				errs = append(errs, FieldError{Field: rule.Field, Message: "is required"})
			}
			continue
		}
		if *v < rule.Min || *v > rule.Max {
			errs = append(errs, FieldError{
				Field:   rule.Field,
				Message: fmt.Sprintf("must be between %d and %d, got %d", rule.Min, rule.Max, *v),
			})
		}
	}
	return errs
}

// markRequired returns a copy of rules with the named fields required
func markRequired(rules []Rule, fields []string) []Rule {
	out := make([]Rule, len(rules))
	copy(out, rules)
	for i := range out {
		for _, f := range fields {
			if out[i].Field == f {
				out[i].Required = true
			}
		}
	}
	return out
}

// checkRange validates a list field against a rangeRule. A nil list is absent.
func checkRange(rule rangeRule, vals []int) []FieldError {
	if vals == nil {
		return nil
	}
	if len(vals) != rule.length {
		return []FieldError{{Field: rule.field, Message: fmt.Sprintf("must have %d values, got %d", rule.length, len(vals))}}
	}
	for i, v := range vals {
		if v < rule.min || v > rule.max {
			return []FieldError{{Field: rule.field, Message: fmt.Sprintf("values must be between %d and %d, got %d", rule.min, rule.max, v)}}
		}
		if rule.ascending && i > 0 && v <= vals[i-1] {
			return []FieldError{{Field: rule.field, Message: "values must be ascending"}}
		}
	}
	return nil
}

// ValidateMAC checks a MAC identifier as the lights expect it: 12 hex digits,
// optionally separated by colons.
func ValidateMAC(mac string) error {
	if mac == "" {
		return errors.New("is required")
	}
	if strings.Contains(mac, ":") {
		if _, err := net.ParseMAC(mac); err != nil {
			return fmt.Errorf("invalid MAC address %q", mac)
		}
		return nil
	}
	if len(mac) != 12 {
		return fmt.Errorf("must be 12 hex digits, got %q", mac)
	}
	for _, r := range mac {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return fmt.Errorf("must be 12 hex digits, got %q", mac)
		}
	}
	return nil
}
