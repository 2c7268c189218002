// Package deps checks that the external binaries required by the selected
// backends are installed before a run touches any file.
//
//	statuses := deps.CheckBinaries(deps.RequirementsFor(settings))
//	statuses = deps.Probe(ctx, runner, statuses)
//	if err := deps.Missing(statuses); err != nil {
//	    // errors.Is(err, deps.ErrDependencyMissing)
//	}
package deps
