// Package localnet answers the questions the controller asks about the host:
// which IPv4 address to bind and advertise, which address reaches every light
// on the segment, and which MAC-shaped identity this process presents to
// lights in registration and acknowledgement packets.
package localnet
