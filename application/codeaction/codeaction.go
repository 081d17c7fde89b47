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

package codeaction

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/wenzdey/checkov-vscode/application/config"
	"github.com/wenzdey/checkov-vscode/application/watcher"
	"github.com/wenzdey/checkov-vscode/domain/scan"
	"github.com/wenzdey/checkov-vscode/infrastructure/checkov"
	"github.com/wenzdey/checkov-vscode/internal/uri"
)

// IssueProvider hands out the published issues of a document and its
// current text.
type IssueProvider interface {
	IssuesFor(path string, r scan.Range) []scan.Issue
	DocumentText(path string) string
}

// Service builds quick-fix and guideline actions for the issues under the
// cursor. Fix edits are computed lazily at resolve time, against the text
// the document has then.
type Service struct {
	c           *config.Config
	provider    IssueProvider
	fileWatcher *watcher.FileWatcher
	fixes       *xsync.MapOf[uuid.UUID, scan.Issue]
}

func NewService(c *config.Config, provider IssueProvider, fileWatcher *watcher.FileWatcher) *Service {
	return &Service{
		c:           c,
		provider:    provider,
		fileWatcher: fileWatcher,
		fixes:       xsync.NewMapOf[uuid.UUID, scan.Issue](),
	}
}

// GetCodeActions returns the actions for issues overlapping the range. A
// document with unsaved changes gets none: its ranges may no longer match
// the published issues.
func (s *Service) GetCodeActions(path string, r scan.Range) []scan.CodeAction {
	logger := s.c.Logger().With().Str("method", "codeaction.GetCodeActions").Logger()
	if s.fileWatcher.IsDirty(uri.PathToUri(path)) {
		logger.Debug().Str("path", path).Msg("document is dirty, withholding actions")
		return nil
	}

	var actions []scan.CodeAction
	for _, issue := range s.provider.IssuesFor(path, r) {
		actions = append(actions, issue.CodeActions...)
		if issue.HasFix() {
			actions = append(actions, s.deferredFixAction(issue))
		}
	}
	logger.Debug().Str("path", path).Int("actions", len(actions)).Send()
	return actions
}

func (s *Service) deferredFixAction(issue scan.Issue) scan.CodeAction {
	id := uuid.New()
	s.fixes.Store(id, issue)
	return scan.CodeAction{
		Title:       fmt.Sprintf("Apply fix for %s", issue.ID),
		IsPreferred: true,
		Uuid:        &id,
	}
}

// ResolveCodeAction computes the deferred fix edit against the document's
// current text. A drifted code block withholds the edit: the action comes
// back without one and the diagnostic stays.
func (s *Service) ResolveCodeAction(id uuid.UUID) (scan.CodeAction, error) {
	issue, ok := s.fixes.Load(id)
	if !ok {
		return scan.CodeAction{}, errors.Errorf("no deferred code action with id %s", id)
	}

	action := scan.CodeAction{
		Title:       fmt.Sprintf("Apply fix for %s", issue.ID),
		IsPreferred: true,
		Uuid:        &id,
	}

	edit := checkov.SynthesizeFix(issue, s.provider.DocumentText(issue.AffectedFilePath))
	if edit == nil {
		s.c.Logger().Info().Str("method", "codeaction.ResolveCodeAction").Str("issue", issue.ID).Msg("fix anchor drifted, withholding edit")
		return action, nil
	}

	action.Edit = &scan.WorkspaceEdit{
		Changes: map[string][]scan.TextEdit{
			issue.AffectedFilePath: {*edit},
		},
	}
	return action, nil
}
