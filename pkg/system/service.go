package system

import (
	"bytes"
	"context"
	"fmt"
)

// Systemd controls services through systemctl.
type Systemd struct {
	Run Runner
}

// NewSystemd returns a controller that shells out to the host's systemctl.
func NewSystemd() *Systemd {
	return &Systemd{Run: ExecRunner}
}

// Restart restarts the named service.
func (s *Systemd) Restart(ctx context.Context, name string) error {
	return s.systemctl(ctx, "restart", name)
}

// Enable marks the named service to start at boot.
func (s *Systemd) Enable(ctx context.Context, name string) error {
	return s.systemctl(ctx, "enable", name)
}

func (s *Systemd) systemctl(ctx context.Context, verb, name string) error {
	out, err := s.Run(ctx, "systemctl", verb, name)
	if err != nil {
		return fmt.Errorf("systemctl %s %s: %v: %s", verb, name, err, bytes.TrimSpace(out))
	}
	return nil
}
