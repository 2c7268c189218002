package deps

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/handiism/artnorm/internal/command"
	"github.com/handiism/artnorm/internal/config"
)

// ErrDependencyMissing is returned when a required binary is not available.
var ErrDependencyMissing = errors.New("required dependency missing")

// Requirement defines an external dependency artnorm relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
	Version     string
}

// RequirementsFor lists the binaries the configured backends need. Native
// backends need none.
func RequirementsFor(s *config.Settings) []Requirement {
	var reqs []Requirement
	if s.PictureBackend == config.PictureBackendMetaflac {
		reqs = append(reqs, Requirement{
			Name:        "metaflac",
			Command:     s.MetaflacPath,
			Description: "reads and writes FLAC picture blocks (install the flac package)",
		})
	}
	if s.ImageBackend == config.ImageBackendMagick {
		reqs = append(reqs,
			Requirement{
				Name:        "identify",
				Command:     s.IdentifyPath,
				Description: "reads image size and encoding (install ImageMagick)",
			},
			Requirement{
				Name:        "convert",
				Command:     s.ConvertPath,
				Description: "resizes and re-encodes art (install ImageMagick)",
			},
		)
	}
	return reqs
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Available = false
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		if _, err := exec.LookPath(cmd); err != nil {
			status.Available = false
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		results = append(results, status)
	}
	return results
}

// Probe runs "<command> --version" for every available dependency in
// parallel and records the first line of output as Version. A binary that
// is on PATH but cannot run is marked unavailable.
func Probe(ctx context.Context, runner command.Runner, statuses []Status) []Status {
	out := append([]Status(nil), statuses...)

	g, ctx := errgroup.WithContext(ctx)
	for i := range out {
		if !out[i].Available {
			continue
		}
		i := i // per-iteration copy; go.mod targets go1.21 loop semantics
		g.Go(func() error {
			res, err := runner.Run(ctx, out[i].Command, "--version")
			if err != nil {
				var exitErr *command.ExitError
				if errors.As(err, &exitErr) {
					// Some tools exit non-zero on --version; they still ran.
					out[i].Version = firstLine(res.Stdout, res.Stderr)
					return nil
				}
				out[i].Available = false
				out[i].Detail = err.Error()
				return nil
			}
			out[i].Version = firstLine(res.Stdout, res.Stderr)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Missing returns an error wrapping ErrDependencyMissing naming every
// required dependency that is unavailable, or nil.
func Missing(statuses []Status) error {
	var missing []string
	for _, s := range statuses {
		if s.Available || s.Optional {
			continue
		}
		detail := s.Detail
		if s.Description != "" {
			detail += "; " + s.Description
		}
		missing = append(missing, fmt.Sprintf("%s (%s)", s.Name, detail))
	}
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrDependencyMissing, strings.Join(missing, ", "))
}

func firstLine(outputs ...[]byte) string {
	for _, b := range outputs {
		line, _, _ := strings.Cut(strings.TrimSpace(string(b)), "\n")
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	return ""
}
