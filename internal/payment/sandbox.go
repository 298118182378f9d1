package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// SandboxGateway approves every charge except those whose details carry
// the "declined" marker.  It stands in for the real gateway in dev and
// test environments; production deployments inject their own Gateway.
type SandboxGateway struct{}

// NewSandboxGateway returns a sandbox gateway.
func NewSandboxGateway() *SandboxGateway { return &SandboxGateway{} }

// Charge implements Gateway.  Details containing "declined" produce a
// declined result; anything else is approved with a fresh reference.
func (g *SandboxGateway) Charge(_ context.Context, req ChargeRequest) (ChargeResult, error) {
	if strings.Contains(strings.ToLower(req.Details), "declined") {
		return ChargeResult{Success: false, Reason: "card declined"}, nil
	}
	return ChargeResult{Success: true, Reference: "sbx-" + uuid.NewString()}, nil
}
