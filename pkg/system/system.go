// Package system wraps the host facilities the provisioner depends on:
// default-route discovery, service control, package management and privilege
// checks. Every facility sits behind a narrow interface so the engine can
// run against fakes without touching the host.
package system

import (
	"context"
	"errors"
	"os"
	"os/exec"
)

// RouteResolver reports the egress interface carrying the host's default
// route.
type RouteResolver interface {
	DefaultInterface() (string, error)
}

// ServiceController manages the proxy service's lifecycle.
type ServiceController interface {
	// Restart restarts the named service, loading the new configuration.
	Restart(ctx context.Context, name string) error

	// Enable marks the named service to start at boot.
	Enable(ctx context.Context, name string) error
}

// PackageInstaller ensures an OS package is present on the host.
type PackageInstaller interface {
	EnsureInstalled(ctx context.Context, name string) error
}

// Runner executes one host command and returns its combined output.
// Service and package operations take a Runner so tests can intercept
// every command instead of spawning processes.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs commands with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// RequireRoot reports an error when the process lacks root privileges.
// Writing the artifact and restarting the service both need them.
func RequireRoot() error {
	if os.Geteuid() != 0 {
		return errors.New("root privileges required")
	}
	return nil
}
