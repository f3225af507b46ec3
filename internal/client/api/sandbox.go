package api

import (
	"fmt"

	"github.com/ascollins/portfolioctl/internal/models"
)

// Well-known sandbox ports. Each provisioned sandbox exposes two views keyed
// by these port labels.
const (
	// PortSandbox serves the interactive sandbox view.
	PortSandbox = 5173
	// PortPreview serves the generated-code preview view.
	PortPreview = 8080
)

// sandboxDomain is the preview hosting domain.
const sandboxDomain = "e2b.app"

// ViewURL builds the embeddable URL for one view of a provisioned sandbox.
func ViewURL(s models.Sandbox, port int) string {
	return fmt.Sprintf("https://%d-%s.%s", port, s.ID, sandboxDomain)
}

// SandboxView tracks which of the two sandbox views is active. The zero value
// starts on the interactive sandbox, matching the dashboard default.
type SandboxView struct {
	port int
}

// Port returns the active view's port label.
func (v *SandboxView) Port() int {
	if v.port == 0 {
		return PortSandbox
	}
	return v.port
}

// Toggle switches between the interactive sandbox and the code preview.
func (v *SandboxView) Toggle() {
	if v.Port() == PortSandbox {
		v.port = PortPreview
	} else {
		v.port = PortSandbox
	}
}

// URL returns the URL of the active view for the given sandbox.
func (v *SandboxView) URL(s models.Sandbox) string {
	return ViewURL(s, v.Port())
}
