package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/wizlocal/internal/control"
	"github.com/muurk/wizlocal/internal/protocol"
	"github.com/muurk/wizlocal/internal/transport"
	"github.com/muurk/wizlocal/internal/ui"
)

// commandOutput is the JSON form of a command result
type commandOutput struct {
	Light  string       `json:"light"`
	Method string       `json:"method,omitempty"`
	OK     bool         `json:"ok"`
	Result any          `json:"result,omitempty"`
	Error  *errorOutput `json:"error,omitempty"`
}

type errorOutput struct {
	Type    string   `json:"type"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

func newErrorOutput(err error) *errorOutput {
	out := &errorOutput{Type: "error", Message: err.Error()}
	if protocol.IsValidationError(err) {
		out.Type = "validation"
		out.Fields = ui.Troubleshooting(err)
	} else if t, ok := transport.TypeOf(err); ok {
		out.Type = t.String()
	}
	return out
}

// exchange describes one command sent to one light
type exchange[T any] struct {
	title    string
	target   string
	params   []ui.Detail
	do       func(ctx context.Context, c *control.Controller, ip string) (transport.Result[T], error)
	describe func(T) []ui.Detail
}

// run resolves the target, performs the exchange and prints the outcome
func (e exchange[T]) run(cmd *cobra.Command) error {
	p := ui.NewPrinter(cmd.OutOrStdout(), format)

	ip, err := registry.ResolveTarget(e.target)
	if err != nil {
		return err
	}

	params := append([]ui.Detail{{Key: "Light", Value: lightLabel(e.target, ip)}}, e.params...)
	p.PrintHeader(e.title, commandLine(cmd), params...)

	res, err := e.do(cmd.Context(), newController(), ip)
	if err == nil {
		err = res.Err()
	}

	if p.JSON() {
		out := commandOutput{Light: ip, Method: res.Method(), OK: err == nil}
		if err != nil {
			out.Error = newErrorOutput(err)
		} else {
			out.Result = res.Params()
		}
		if jerr := p.PrintJSON(out); jerr != nil {
			return jerr
		}
		if err != nil {
			return errReported
		}
		return nil
	}

	if err != nil {
		p.PrintError(e.title+" failed", err)
		return errReported
	}

	details := []ui.Detail{{Key: "Light", Value: ip}}
	if e.describe != nil {
		details = append(details, e.describe(res.Params())...)
	}
	p.PrintSuccess(e.title, details...)
	return nil
}

func newController() *control.Controller {
	return control.New(control.Options{InterfaceName: ifaceName})
}

func commandLine(cmd *cobra.Command) string {
	parts := append([]string{cmd.CommandPath()}, cmd.Flags().Args()...)
	return strings.Join(parts, " ")
}

func lightLabel(target, ip string) string {
	if target == ip {
		return ip
	}
	return fmt.Sprintf("%s (%s)", target, ip)
}

func describeSuccess(r protocol.SuccessResult) []ui.Detail {
	return []ui.Detail{{Key: "Success", Value: strconv.FormatBool(r.Success)}}
}

func describePilot(s protocol.PilotState) []ui.Detail {
	state := ui.LightOffStyle.Render("off")
	if s.IsOn() {
		state = ui.LightOnStyle.Render("on")
	}
	details := []ui.Detail{
		{Key: "State", Value: state},
		{Key: "Mode", Value: s.Mode()},
	}
	if s.Dimming != nil {
		details = append(details, ui.Detail{Key: "Dimming", Value: strconv.Itoa(*s.Dimming) + "%"})
	}
	if s.Speed != nil {
		details = append(details, ui.Detail{Key: "Speed", Value: strconv.Itoa(*s.Speed)})
	}
	if s.Mac != "" {
		details = append(details, ui.Detail{Key: "MAC", Value: s.Mac})
	}
	if s.Rssi != nil {
		details = append(details, ui.Detail{Key: "RSSI", Value: strconv.Itoa(*s.Rssi) + " dBm"})
	}
	return details
}

func describeSystemConfig(c protocol.SystemConfig) []ui.Detail {
	details := []ui.Detail{
		{Key: "MAC", Value: c.Mac},
		{Key: "Home", Value: strconv.Itoa(c.HomeID)},
		{Key: "Room", Value: strconv.Itoa(c.RoomID)},
	}
	if c.GroupID != 0 {
		details = append(details, ui.Detail{Key: "Group", Value: strconv.Itoa(c.GroupID)})
	}
	if c.ModuleName != "" {
		details = append(details, ui.Detail{Key: "Module", Value: c.ModuleName})
	}
	if c.FwVersion != "" {
		details = append(details, ui.Detail{Key: "Firmware", Value: c.FwVersion})
	}
	return details
}

func describePower(p protocol.PowerReading) []ui.Detail {
	return []ui.Detail{{Key: "Power", Value: fmt.Sprintf("%.1f W", p.Watts())}}
}
