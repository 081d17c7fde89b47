/*
 * © 2023 wenzdey
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"
	sglsp "github.com/sourcegraph/go-lsp"

	"github.com/wenzdey/checkov-vscode/application/config"
	"github.com/wenzdey/checkov-vscode/application/watcher"
	"github.com/wenzdey/checkov-vscode/domain/ide/converter"
	"github.com/wenzdey/checkov-vscode/domain/scan"
	"github.com/wenzdey/checkov-vscode/infrastructure/checkov"
	"github.com/wenzdey/checkov-vscode/internal/debounce"
	"github.com/wenzdey/checkov-vscode/internal/notification"
	"github.com/wenzdey/checkov-vscode/internal/observability/error_reporting"
	"github.com/wenzdey/checkov-vscode/internal/uri"
)

// Invoker runs the engine for one request.
type Invoker interface {
	Scan(ctx context.Context, req scan.Request) (*scan.Result, error)
}

// InstallationGate blocks scan dispatch until a usable engine binary is in
// place.
type InstallationGate interface {
	EnsureInstalled(ctx context.Context) error
	Version() string
}

// documentState carries the per-document scheduling bookkeeping. The
// generation counter increases with every accepted request; an in-flight
// scan whose generation fell behind is superseded and must not publish.
type documentState struct {
	mutex      sync.Mutex
	state      scan.State
	generation uint64
	cancel     context.CancelFunc
	debouncer  *debounce.Debouncer
	content    string
	hasContent bool
	unscanned  string
}

// Scheduler decides when documents get scanned. It debounces change events,
// runs save/focus scans immediately, cancels superseded work and publishes
// diagnostics for completed scans.
type Scheduler struct {
	c             *config.Config
	invoker       Invoker
	gate          InstallationGate
	fileWatcher   *watcher.FileWatcher
	notifier      notification.Notifier
	errorReporter error_reporting.ErrorReporter

	documents *xsync.MapOf[string, *documentState]
	issues    *xsync.MapOf[string, []scan.Issue]

	mutex          sync.Mutex
	activeDocument string

	stopTokenListener context.CancelFunc
	runningScans      sync.WaitGroup
}

func New(
	c *config.Config,
	invoker Invoker,
	gate InstallationGate,
	fileWatcher *watcher.FileWatcher,
	notifier notification.Notifier,
	errorReporter error_reporting.ErrorReporter,
) *Scheduler {
	s := &Scheduler{
		c:             c,
		invoker:       invoker,
		gate:          gate,
		fileWatcher:   fileWatcher,
		notifier:      notifier,
		errorReporter: errorReporter,
		documents:     xsync.NewMapOf[string, *documentState](),
		issues:        xsync.NewMapOf[string, []scan.Issue](),
	}
	listenerCtx, stop := context.WithCancel(context.Background())
	s.stopTokenListener = stop
	go s.listenForTokenChanges(listenerCtx)
	return s
}

// Stop cancels all in-flight scans and the credential listener.
func (s *Scheduler) Stop() {
	s.stopTokenListener()
	s.cancelAllScans()
	s.runningScans.Wait()
}

// DidChangeTextDocument records the document's new content. Accumulated
// changes only arm the debouncer once they contain a newline; smaller edits
// wait for more input.
func (s *Scheduler) DidChangeTextDocument(documentURI sglsp.DocumentURI, content string, changeText string) {
	path := uri.PathFromUri(documentURI)
	if !checkov.IsSupportedFile(path) {
		return
	}
	s.fileWatcher.SetFileAsChanged(documentURI)

	ds := s.documentState(path)
	ds.mutex.Lock()
	ds.content = content
	ds.hasContent = true
	ds.unscanned += changeText
	armed := strings.Contains(ds.unscanned, "\n")
	if armed {
		ds.unscanned = ""
	}
	debouncer := ds.debouncer
	if debouncer == nil {
		debouncer = debounce.NewDebouncer(s.c.ScanDebounceDuration(), func() {
			s.RequestScan(documentURI, scan.TriggerChange)
		})
		ds.debouncer = debouncer
	}
	ds.mutex.Unlock()

	if armed {
		debouncer.Debounce()
	}
}

// DidSaveTextDocument scans the saved document immediately, bypassing the
// debouncer. The content on disk is authoritative again.
func (s *Scheduler) DidSaveTextDocument(documentURI sglsp.DocumentURI) {
	path := uri.PathFromUri(documentURI)
	s.fileWatcher.SetFileAsSaved(documentURI)

	ds := s.documentState(path)
	ds.mutex.Lock()
	ds.content = ""
	ds.hasContent = false
	ds.unscanned = ""
	ds.mutex.Unlock()

	s.RequestScan(documentURI, scan.TriggerSave)
}

// DidChangeActiveDocument cancels in-flight work for the previously focused
// document and scans the newly focused one.
func (s *Scheduler) DidChangeActiveDocument(documentURI sglsp.DocumentURI) {
	path := uri.PathFromUri(documentURI)

	s.mutex.Lock()
	previous := s.activeDocument
	s.activeDocument = path
	s.mutex.Unlock()

	if previous != "" && previous != path {
		s.cancelScan(previous)
	}
	s.RequestScan(documentURI, scan.TriggerFocus)
}

// RequestScan starts a scan attempt for the document. Any in-flight scan of
// the same document is superseded first and its diagnostics are cleared, so
// stale findings never outlive the request that replaced them.
func (s *Scheduler) RequestScan(documentURI sglsp.DocumentURI, trigger scan.Trigger) {
	logger := s.c.Logger().With().Str("method", "scheduler.RequestScan").Str("trigger", string(trigger)).Logger()
	path := uri.PathFromUri(documentURI)

	ds := s.documentState(path)
	ds.mutex.Lock()
	ds.generation++
	generation := ds.generation
	if ds.cancel != nil {
		ds.cancel()
		ds.cancel = nil
	}
	if ds.debouncer != nil {
		ds.debouncer.Stop()
	}
	ds.mutex.Unlock()

	s.clearIssues(path)

	if !checkov.IsSupportedFile(path) {
		logger.Debug().Str("path", path).Msg("unsupported file type")
		s.setState(ds, scan.Idle)
		return
	}
	if !s.isActive(path) {
		logger.Debug().Str("path", path).Msg("document is not active")
		s.setState(ds, scan.Idle)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	ds.mutex.Lock()
	ds.cancel = cancel
	ds.state = scan.Running
	ds.mutex.Unlock()

	s.runningScans.Add(1)
	go func() {
		defer s.runningScans.Done()
		s.runScan(ctx, path, generation)
	}()
}

func (s *Scheduler) runScan(ctx context.Context, path string, generation uint64) {
	logger := s.c.Logger().With().Str("method", "scheduler.runScan").Str("path", path).Logger()
	documentURI := uri.PathToUri(path)
	s.notifier.Send(notification.ScanStatusParams{URI: documentURI, Status: scan.StatusInProgress})
	defer func() {
		// a superseding request owns the document state by now
		if !s.isSuperseded(path, generation) {
			s.setState(s.documentState(path), scan.Idle)
		}
	}()

	if err := s.gate.EnsureInstalled(ctx); err != nil {
		if ctx.Err() != nil || s.isSuperseded(path, generation) {
			return
		}
		s.reportScanError(documentURI, err)
		return
	}

	if !s.c.NonEmptyToken() {
		err := &scan.ConfigurationError{Message: "A Bridgecrew API token is required to scan. Set the token in the extension settings."}
		s.reportScanError(documentURI, err)
		return
	}

	request, cleanup, err := s.buildRequest(path)
	if err != nil {
		s.reportScanError(documentURI, err)
		return
	}
	defer cleanup()

	result, err := s.invoker.Scan(ctx, request)
	if errors.Is(err, context.Canceled) || s.isSuperseded(path, generation) {
		logger.Debug().Msg("scan superseded, discarding")
		return
	}
	if err != nil {
		s.errorReporter.CaptureError(err)
		s.reportScanError(documentURI, err)
		return
	}

	issues := checkov.ToIssues(result, path, s.DocumentText(path), s.c.UseBcIDs())
	if s.isSuperseded(path, generation) {
		logger.Debug().Msg("scan superseded after mapping, discarding")
		return
	}

	s.issues.Store(path, issues)
	s.notifier.Send(converter.ToPublishParams(path, issues))
	status := scan.StatusPassed
	if len(issues) > 0 {
		status = scan.StatusFailed
	}
	s.notifier.Send(notification.ScanStatusParams{URI: documentURI, Status: status})
	logger.Debug().Int("issues", len(issues)).Msg("scan published")
}

// buildRequest mirrors unsaved content into a temporary file so the engine
// sees what the editor shows. The mirror keeps the document's file name,
// the engine selects its framework from it.
func (s *Scheduler) buildRequest(path string) (scan.Request, func(), error) {
	request := scan.Request{
		FilePath:      path,
		DisplayPath:   path,
		Token:         s.c.Token(),
		UseBcIDs:      s.c.UseBcIDs(),
		BackendURL:    s.c.BackendURL(),
		EngineVersion: s.gate.Version(),
	}
	cleanup := func() {}

	ds := s.documentState(path)
	ds.mutex.Lock()
	content, hasContent := ds.content, ds.hasContent
	ds.mutex.Unlock()

	if hasContent && s.fileWatcher.IsDirty(uri.PathToUri(path)) {
		mirrorDir, err := os.MkdirTemp("", "checkov-scan-")
		if err != nil {
			return request, cleanup, errors.Wrap(err, "couldn't create temporary scan directory")
		}
		mirror := filepath.Join(mirrorDir, filepath.Base(path))
		if err = os.WriteFile(mirror, []byte(content), 0600); err != nil {
			_ = os.RemoveAll(mirrorDir)
			return request, cleanup, errors.Wrap(err, "couldn't mirror unsaved document")
		}
		request.FilePath = mirror
		cleanup = func() { _ = os.RemoveAll(mirrorDir) }
	}
	return request, cleanup, nil
}

func (s *Scheduler) reportScanError(documentURI sglsp.DocumentURI, err error) {
	s.notifier.Send(notification.ScanStatusParams{URI: documentURI, Status: scan.StatusError})

	var configurationError *scan.ConfigurationError
	if errors.As(err, &configurationError) {
		s.notifier.SendShowMessage(sglsp.MTWarning, configurationError.Message)
		return
	}
	if s.c.IsErrorMessageDisabled() {
		s.c.Logger().Err(err).Msg("scan failed")
		return
	}
	s.notifier.SendError(err)
}

// DocumentText returns what the scan should consider current: the last
// change event's content for dirty documents, the disk content otherwise.
func (s *Scheduler) DocumentText(path string) string {
	ds := s.documentState(path)
	ds.mutex.Lock()
	content, hasContent := ds.content, ds.hasContent
	ds.mutex.Unlock()
	if hasContent {
		return content
	}
	bytes, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(bytes)
}

// Issues returns the published issues of the document.
func (s *Scheduler) Issues(path string) []scan.Issue {
	issues, _ := s.issues.Load(path)
	return issues
}

// IssuesFor returns the published issues overlapping the given range.
func (s *Scheduler) IssuesFor(path string, r scan.Range) []scan.Issue {
	var matching []scan.Issue
	for _, issue := range s.Issues(path) {
		if issue.Range.Overlaps(r) {
			matching = append(matching, issue)
		}
	}
	return matching
}

// FlushPendingScan fires the document's pending debounced scan immediately.
func (s *Scheduler) FlushPendingScan(documentURI sglsp.DocumentURI) {
	ds := s.documentState(uri.PathFromUri(documentURI))
	ds.mutex.Lock()
	debouncer := ds.debouncer
	ds.mutex.Unlock()
	if debouncer != nil {
		debouncer.Flush()
	}
}

func (s *Scheduler) listenForTokenChanges(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.c.TokenChanges():
			s.c.Logger().Info().Str("method", "scheduler.listenForTokenChanges").Msg("credentials changed, cancelling in-flight scans")
			s.cancelAllScans()
		}
	}
}

func (s *Scheduler) cancelAllScans() {
	s.documents.Range(func(path string, _ *documentState) bool {
		s.cancelScan(path)
		return true
	})
}

// cancelScan supersedes any in-flight scan of the document without starting
// a new one.
func (s *Scheduler) cancelScan(path string) {
	ds := s.documentState(path)
	ds.mutex.Lock()
	defer ds.mutex.Unlock()
	ds.generation++
	if ds.cancel != nil {
		ds.cancel()
		ds.cancel = nil
	}
	if ds.debouncer != nil {
		ds.debouncer.Stop()
	}
	ds.state = scan.Idle
}

func (s *Scheduler) clearIssues(path string) {
	if _, ok := s.issues.Load(path); !ok {
		return
	}
	s.issues.Delete(path)
	s.notifier.Send(converter.ToPublishParams(path, nil))
}

func (s *Scheduler) documentState(path string) *documentState {
	ds, _ := s.documents.LoadOrCompute(path, func() *documentState {
		return &documentState{}
	})
	return ds
}

func (s *Scheduler) isSuperseded(path string, generation uint64) bool {
	ds := s.documentState(path)
	ds.mutex.Lock()
	defer ds.mutex.Unlock()
	return ds.generation != generation
}

func (s *Scheduler) isActive(path string) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.activeDocument == "" || s.activeDocument == path
}

func (s *Scheduler) setState(ds *documentState, state scan.State) {
	ds.mutex.Lock()
	ds.state = state
	ds.mutex.Unlock()
}
