// Package provision sequences one configuration run: recover the active
// allow-list from the artifact, reconcile the requested changes, render the
// new configuration and install it on the host.
//
// The engine itself is a pure function from (existing artifact bytes,
// request) to new artifact bytes; everything that touches the host goes
// through the injected collaborators so a run can be exercised end to end
// against fakes.
package provision

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/sha3"

	"dantectl/pkg/addr"
	"dantectl/pkg/backup"
	"dantectl/pkg/dante"
	"dantectl/pkg/reconcile"
	"dantectl/pkg/system"
)

// ErrInvalidPort reports a listen port outside 1-65535.
var ErrInvalidPort = errors.New("invalid port")

// Request is one apply invocation.
type Request struct {
	Add    []addr.Spec // entries to add, already validated
	Remove []addr.Spec // entries to remove, already validated
	Port   int         // SOCKS listen port
	DryRun bool        // render and report without touching the host
}

// Report describes a completed run.
type Report struct {
	RunID     uuid.UUID
	AllowList addr.List
	Added     []addr.Spec
	Removed   []addr.Spec
	Skipped   []addr.Spec // removal targets that were not present
	Interface string
	Port      int
	Changed   bool // false when the rendered artifact matched the existing one
	DryRun    bool
}

// Provisioner owns the artifact path and the host collaborators.
// Nil collaborators are skipped, which is how dry runs and tests opt out of
// host side effects.
type Provisioner struct {
	ArtifactPath string
	ServiceName  string
	PackageName  string

	Routes   system.RouteResolver
	Service  system.ServiceController
	Packages system.PackageInstaller
	Backups  backup.Sink

	// Now is the clock used for backup names; nil means time.Now.
	Now func() time.Time
}

// Apply runs the full reconcile-render-install sequence and returns a
// report of what changed. Any error aborts the run before the artifact is
// touched; a partial configuration is never written.
func (p *Provisioner) Apply(ctx context.Context, req Request) (*Report, error) {
	if req.Port < 1 || req.Port > 65535 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidPort, req.Port)
	}

	runID := uuid.New()
	logger := log.With().Str("run_id", runID.String()).Logger()

	existing, found, err := p.readArtifact()
	if err != nil {
		return nil, err
	}

	var current addr.List
	if found {
		current = dante.Extract(string(existing))
	}

	result, err := reconcile.Apply(current, req.Add, req.Remove)
	if err != nil {
		return nil, err
	}
	for _, spec := range result.Skipped {
		logger.Warn().Str("entry", string(spec)).Msg("Not present, skipping")
	}

	iface, err := p.Routes.DefaultInterface()
	if err != nil {
		return nil, fmt.Errorf("resolve egress interface: %w", err)
	}

	rendered := []byte(dante.Render(dante.Config{
		Port:      req.Port,
		Interface: iface,
		AllowList: result.List,
	}))

	report := &Report{
		RunID:     runID,
		AllowList: result.List,
		Added:     result.Added,
		Removed:   result.Removed,
		Skipped:   result.Skipped,
		Interface: iface,
		Port:      req.Port,
		DryRun:    req.DryRun,
	}

	if found && sha3.Sum256(existing) == sha3.Sum256(rendered) {
		logger.Info().Msg("Configuration unchanged, nothing to do")
		return report, nil
	}
	report.Changed = true

	if req.DryRun {
		logger.Info().Int("entries", len(result.List)).Msg("Dry run, configuration not written")
		return report, nil
	}

	if p.Packages != nil && p.PackageName != "" {
		if err := p.Packages.EnsureInstalled(ctx, p.PackageName); err != nil {
			return nil, fmt.Errorf("ensure %s installed: %w", p.PackageName, err)
		}
	}

	if found && p.Backups != nil {
		name := backup.Name(p.ArtifactPath, p.now())
		if err := p.Backups.Store(ctx, name, existing); err != nil {
			return nil, fmt.Errorf("back up existing configuration: %w", err)
		}
		logger.Info().Str("backup", name).Msg("Existing configuration backed up")
	}

	if err := p.writeArtifact(rendered); err != nil {
		return nil, err
	}

	if p.Service != nil && p.ServiceName != "" {
		if err := p.Service.Restart(ctx, p.ServiceName); err != nil {
			return nil, fmt.Errorf("restart %s: %w", p.ServiceName, err)
		}
		if err := p.Service.Enable(ctx, p.ServiceName); err != nil {
			return nil, fmt.Errorf("enable %s: %w", p.ServiceName, err)
		}
	}

	logger.Info().
		Int("entries", len(result.List)).
		Str("interface", iface).
		Int("port", req.Port).
		Msg("Configuration applied")
	return report, nil
}

// readArtifact returns the existing artifact bytes. A missing file is the
// normal first-run state, not an error.
func (p *Provisioner) readArtifact() ([]byte, bool, error) {
	data, err := os.ReadFile(p.ArtifactPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %w", p.ArtifactPath, err)
	}
	return data, true, nil
}

// writeArtifact replaces the artifact through a temp file and rename so a
// partial write never becomes the live configuration.
func (p *Provisioner) writeArtifact(data []byte) error {
	dir := filepath.Dir(p.ArtifactPath)
	tmp, err := os.CreateTemp(dir, ".dantectl-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp artifact: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp artifact: %w", err)
	}
	if err := os.Rename(tmpName, p.ArtifactPath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("install artifact: %w", err)
	}
	return nil
}

func (p *Provisioner) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}
