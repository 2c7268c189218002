// Package batch provides the orchestration logic for normalizing the
// embedded art of a music library.
//
// # Manager
//
// The Manager runs two phases over the albums found by the scanner:
//
//  1. Plan: classify every album and report what would happen
//  2. Commit: classify every album again, then normalize the art once per
//     album and embed it into every track
//
// Commit never trusts an earlier Plan. If the library changes between the
// two phases the plan may be stale; nothing locks the files against other
// programs.
//
// # Basic Usage
//
//	manager := batch.NewManager(settings, batch.ToolsFor(settings), func(event batch.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	plan, err := manager.Plan(ctx, albums)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(batch.RenderSummary(plan.Summary))
//
//	summary := manager.Commit(ctx, plan.Albums())
//	err = batch.WriteAttentionLog("missing_album_art.log", summary.Attention)
//
// # Sessions
//
// Front ends start with Open, which validates the settings, checks the
// external tools and locks the library root for the length of the run:
//
//	session, err := batch.Open(ctx, settings, root, logger)
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//	albums, err := session.Scan(ctx)
//	manager := session.NewManager(onProgress)
//
// # Temporary Files
//
// Each album gets its own Workspace, removed before the next album starts on
// every exit path, including a panic in a collaborator. A panic counts the
// album as errored.
//
// # Progress Tracking
//
// Progress is reported via a callback function that receives ProgressEvent:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
package batch
