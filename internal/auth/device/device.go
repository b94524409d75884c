// Package device derives human-readable device labels from user agents, so a
// manager reviewing their sessions can tell a kitchen tablet from a laptop.
package device

import (
	"fmt"

	"github.com/mssola/useragent"
)

const unknownDevice = "Unknown Device"

// ParseUserAgent reduces a raw User-Agent header to "Browser on Platform".
func ParseUserAgent(raw string) string {
	if raw == "" {
		return unknownDevice
	}

	ua := useragent.New(raw)
	browser, _ := ua.Browser()
	platform := ua.OSInfo().Name
	if platform == "" {
		platform = ua.Platform()
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if platform == "" {
		platform = "Unknown OS"
	}
	return fmt.Sprintf("%s on %s", browser, platform)
}
