package batch

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/handiism/artnorm/internal/artwork"
	"github.com/handiism/artnorm/internal/config"
	"github.com/handiism/artnorm/internal/model"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel int

const (
	LevelInfo ProgressLevel = iota
	LevelVerbose
	LevelWarning
	LevelError
	LevelSuccess
)

// ProgressEvent represents a status update for the operator.
type ProgressEvent struct {
	Message string
	Level   ProgressLevel
}

// Plan is the result of the classification-only phase.
//
// A Plan is informational. Commit classifies every album again and does not
// consult it, so a plan can go stale if the library changes in between.
type Plan struct {
	Results []model.AlbumResult
	Summary model.Summary
}

// Albums returns the planned albums in order.
func (p *Plan) Albums() []*model.Album {
	albums := make([]*model.Album, len(p.Results))
	for i, r := range p.Results {
		albums[i] = r.Album
	}
	return albums
}

// NeedsWork reports whether any album would be modified by Commit.
func (p *Plan) NeedsWork() bool {
	for _, r := range p.Results {
		if r.Decision.RequiresWork() {
			return true
		}
	}
	return false
}

// Manager runs the per-album pipeline over a list of albums.
//
// Albums are processed one at a time in the given order, tracks in album
// order. Failures are contained in the album or track they belong to and
// never stop the run.
type Manager struct {
	inspector  *artwork.Inspector
	normalizer *artwork.Normalizer
	embedder   *artwork.Embedder
	tags       artwork.TagReader

	root    string
	workDir string
	logger  zerolog.Logger

	doneAlbums  atomic.Int32
	totalAlbums atomic.Int32

	onProgress func(ProgressEvent)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the diagnostic logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithRoot makes album labels relative to root when tags are unavailable.
func WithRoot(root string) Option {
	return func(m *Manager) { m.root = root }
}

// WithWorkDir places album workspaces under dir instead of the OS temp
// directory.
func WithWorkDir(dir string) Option {
	return func(m *Manager) { m.workDir = dir }
}

// NewManager creates a Manager from settings and collaborators.
func NewManager(settings *config.Settings, tools Tools, onProgress func(ProgressEvent), opts ...Option) *Manager {
	m := &Manager{
		tags:       tools.Tags,
		logger:     zerolog.Nop(),
		onProgress: onProgress,
	}
	for _, opt := range opts {
		opt(m)
	}

	policy := artwork.Policy{
		MaxSize:        settings.MaxSize,
		Quality:        settings.Quality,
		UseFolderCover: settings.UseFolderCover,
	}
	m.inspector = artwork.NewInspector(tools.Pictures, tools.Images, policy, m.logger)
	m.normalizer = artwork.NewNormalizer(tools.Images, policy, m.logger)
	m.embedder = artwork.NewEmbedder(tools.Pictures, settings.SafeEmbed, m.logger)
	return m
}

// GetProgress returns the number of finished and total albums of the
// running phase.
func (m *Manager) GetProgress() (done, total int) {
	return int(m.doneAlbums.Load()), int(m.totalAlbums.Load())
}

// Plan classifies every album without modifying any file.
//
// When ctx is cancelled the plan covers the albums visited so far, its
// summary is marked interrupted and ctx.Err() is returned with it.
func (m *Manager) Plan(ctx context.Context, albums []*model.Album) (*Plan, error) {
	m.start(len(albums))
	plan := &Plan{Summary: model.Summary{DryRun: true}}

	for i, album := range albums {
		if err := ctx.Err(); err != nil {
			plan.Summary.Interrupted = true
			return plan, err
		}
		m.progress(ProgressEvent{Message: m.header(ctx, i, len(albums), album), Level: LevelInfo})

		result := m.planAlbum(ctx, album)
		plan.Results = append(plan.Results, result)
		plan.Summary = plan.Summary.Add(result)
		m.doneAlbums.Add(1)
	}
	return plan, nil
}

// Commit classifies every album again and normalizes and embeds art where
// required.
//
// On cancellation the album in progress runs to completion, then the loop
// stops and the summary is marked interrupted.
func (m *Manager) Commit(ctx context.Context, albums []*model.Album) model.Summary {
	m.start(len(albums))
	var summary model.Summary

	for i, album := range albums {
		if ctx.Err() != nil {
			summary.Interrupted = true
			m.progress(ProgressEvent{Message: "Interrupted, stopping before the next album", Level: LevelWarning})
			break
		}
		// Detach so an interrupt never leaves an album half-embedded.
		albumCtx := context.WithoutCancel(ctx)
		m.progress(ProgressEvent{Message: m.header(albumCtx, i, len(albums), album), Level: LevelInfo})

		summary = summary.Add(m.commitAlbum(albumCtx, album))
		m.doneAlbums.Add(1)
	}
	return summary
}

func (m *Manager) planAlbum(ctx context.Context, album *model.Album) (result model.AlbumResult) {
	result = model.AlbumResult{Album: album, Decision: model.Unclassified}

	ws, err := NewWorkspace(m.workDir)
	if err != nil {
		return m.failAlbum(album, result.Decision, err)
	}
	defer m.release(ws)
	defer m.recoverAlbum(album, &result)

	c := m.inspector.Classify(ctx, album, ws.Dir())
	result.Decision = c.Decision
	result.Reason = c.Reason
	result.Attention = c.Attention

	if c.Decision.RequiresWork() {
		result.Outcome = model.OutcomePlanned
		result.Processed = len(c.Tracks)
		result.Skipped = album.Len() - len(c.Tracks)
		m.progress(ProgressEvent{Message: fmt.Sprintf("  %s (would process %d track(s))", c.Reason, len(c.Tracks)), Level: LevelInfo})
		return result
	}

	result.Outcome = skipOutcome(c.Decision)
	result.Skipped = album.Len()
	m.progress(ProgressEvent{Message: "  " + c.Reason, Level: skipLevel(c.Decision)})
	m.reportAttention(c.Attention)
	return result
}

func (m *Manager) commitAlbum(ctx context.Context, album *model.Album) (result model.AlbumResult) {
	result = model.AlbumResult{Album: album, Decision: model.Unclassified}

	ws, err := NewWorkspace(m.workDir)
	if err != nil {
		return m.failAlbum(album, result.Decision, err)
	}
	defer m.release(ws)
	defer m.recoverAlbum(album, &result)

	c := m.inspector.Classify(ctx, album, ws.Dir())
	result.Decision = c.Decision
	result.Reason = c.Reason

	if !c.Decision.RequiresWork() {
		result.Outcome = skipOutcome(c.Decision)
		result.Skipped = album.Len()
		result.Attention = c.Attention
		m.progress(ProgressEvent{Message: "  " + c.Reason, Level: skipLevel(c.Decision)})
		m.reportAttention(c.Attention)
		return result
	}

	m.progress(ProgressEvent{Message: "  " + c.Reason, Level: LevelInfo})
	asset, err := m.normalizer.Normalize(ctx, c.Source, c.Decision, ws.Dir())
	if err != nil {
		m.logger.Error().Err(err).Str("album", album.Path).Msg("normalization failed")
		return m.failAlbum(album, c.Decision, err)
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("  Normalized art to %s", asset), Level: LevelVerbose})

	result.Skipped = album.Len() - len(c.Tracks)
	for _, track := range c.Tracks {
		if err := m.embedder.Embed(ctx, track, asset); err != nil {
			m.logger.Error().Err(err).Str("track", track.Path).Msg("embed failed")
			result.Errored++
			result.Attention = append(result.Attention, model.AttentionEntry{Path: track.Path, Reason: err.Error()})
			m.progress(ProgressEvent{Message: fmt.Sprintf("    ✗ Failed: %s: %v", track.Name(), err), Level: LevelError})
			continue
		}
		result.Processed++
		m.progress(ProgressEvent{Message: fmt.Sprintf("    ✓ %s", track.Name()), Level: LevelVerbose})
	}

	// Every track was attempted; failures are tallied per track.
	result.Outcome = model.OutcomeProcessed
	if result.Errored > 0 {
		m.progress(ProgressEvent{Message: fmt.Sprintf("  Finished, %d of %d track(s) failed", result.Errored, len(c.Tracks)), Level: LevelWarning})
	} else {
		m.progress(ProgressEvent{Message: fmt.Sprintf("  Processed %d track(s)", result.Processed), Level: LevelSuccess})
	}
	return result
}

func (m *Manager) reportAttention(entries []model.AttentionEntry) {
	for _, entry := range entries {
		m.progress(ProgressEvent{Message: fmt.Sprintf("    needs attention: %s (%s)", model.NewTrack(entry.Path).Name(), entry.Reason), Level: LevelWarning})
	}
}

// failAlbum counts every track of the album as errored and flags each for
// attention.
func (m *Manager) failAlbum(album *model.Album, decision model.Decision, cause error) model.AlbumResult {
	result := model.AlbumResult{
		Album:    album,
		Decision: decision,
		Outcome:  model.OutcomeErrored,
		Reason:   cause.Error(),
		Errored:  album.Len(),
	}
	for _, track := range album.Tracks {
		result.Attention = append(result.Attention, model.AttentionEntry{Path: track.Path, Reason: cause.Error()})
	}
	m.progress(ProgressEvent{Message: fmt.Sprintf("  ✗ %v", cause), Level: LevelError})
	return result
}

// recoverAlbum turns a panic in a collaborator into an errored album.
func (m *Manager) recoverAlbum(album *model.Album, result *model.AlbumResult) {
	r := recover()
	if r == nil {
		return
	}
	err, ok := r.(error)
	if !ok {
		err = fmt.Errorf("%v", r)
	}
	err = fmt.Errorf("internal error: %w", err)
	m.logger.Error().Err(err).Str("album", album.Path).Msg("recovered from panic")
	*result = m.failAlbum(album, result.Decision, err)
}

func (m *Manager) release(ws *Workspace) {
	if err := ws.Release(); err != nil {
		m.logger.Debug().Err(err).Str("workspace", ws.Dir()).Msg("workspace not removed")
	}
}

// header is the progress line that opens an album.
func (m *Manager) header(ctx context.Context, i, n int, album *model.Album) string {
	return fmt.Sprintf("[%d/%d] %s (%d track(s))", i+1, n, m.label(ctx, album), album.Len())
}

// label names an album "Artist - Album" from the first track's tags, falling
// back to its path.
func (m *Manager) label(ctx context.Context, album *model.Album) string {
	fallback := album.Path
	if m.root != "" {
		fallback = album.RelativePath(m.root)
	}
	if m.tags == nil || album.First() == nil {
		return fallback
	}

	tags, err := m.tags.ReadTags(ctx, album.First().Path)
	if err != nil {
		m.logger.Debug().Err(err).Str("album", album.Path).Msg("no tags for album label")
		return fallback
	}
	artist := tags["ALBUMARTIST"]
	if artist == "" {
		artist = tags["ARTIST"]
	}
	title := tags["ALBUM"]
	switch {
	case artist != "" && title != "":
		return artist + " - " + title
	case title != "":
		return title
	default:
		return fallback
	}
}

func (m *Manager) start(total int) {
	m.doneAlbums.Store(0)
	m.totalAlbums.Store(int32(total))
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

func skipOutcome(d model.Decision) model.Outcome {
	if d == model.SkipCompliant {
		return model.OutcomeCompliantSkip
	}
	return model.OutcomeNoArtSkip
}

func skipLevel(d model.Decision) ProgressLevel {
	if d == model.SkipNoArt {
		return LevelWarning
	}
	return LevelVerbose
}
