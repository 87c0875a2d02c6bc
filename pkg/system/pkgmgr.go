package system

import (
	"bytes"
	"context"
	"fmt"
)

// Apt installs packages with apt-get, skipping ones already present.
type Apt struct {
	Run Runner
}

// NewApt returns an installer that shells out to dpkg and apt-get.
func NewApt() *Apt {
	return &Apt{Run: ExecRunner}
}

// EnsureInstalled installs the named package unless dpkg already knows it.
func (a *Apt) EnsureInstalled(ctx context.Context, name string) error {
	if _, err := a.Run(ctx, "dpkg", "-s", name); err == nil {
		return nil
	}
	out, err := a.Run(ctx, "apt-get", "install", "-y", name)
	if err != nil {
		return fmt.Errorf("apt-get install %s: %v: %s", name, err, bytes.TrimSpace(out))
	}
	return nil
}
