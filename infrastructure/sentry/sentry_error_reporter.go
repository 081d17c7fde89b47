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

package sentry

import (
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/wenzdey/checkov-vscode/application/config"
	"github.com/wenzdey/checkov-vscode/internal/notification"
	"github.com/wenzdey/checkov-vscode/internal/observability/error_reporting"
)

const sentryDsn = "https://3b0c2fd06bd5451da5da74dd4b3f5f60@o923412.ingest.sentry.io/6180291"

// A Sentry implementation of our error reporter that respects user
// preferences regarding tracking.
type gdprAwareSentryErrorReporter struct {
	c        *config.Config
	notifier notification.Notifier
}

func NewSentryErrorReporter(c *config.Config, notifier notification.Notifier) error_reporting.ErrorReporter {
	initializeSentry(c)
	return &gdprAwareSentryErrorReporter{c: c, notifier: notifier}
}

func initializeSentry(c *config.Config) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         sentryDsn,
		Release:     config.Version,
		Environment: "production",
	})
	if err != nil {
		c.Logger().Error().Err(err).Msg("couldn't initialize Sentry")
	}
}

func (s *gdprAwareSentryErrorReporter) FlushErrorReporting() {
	// the maximum duration the shutdown path can afford to wait
	sentry.Flush(2 * time.Second)
}

func (s *gdprAwareSentryErrorReporter) CaptureError(err error) bool {
	if !s.c.IsErrorMessageDisabled() {
		s.notifier.SendError(err)
	}
	if s.c.IsErrorReportingEnabled() {
		eventId := sentry.CaptureException(err)
		s.c.Logger().Info().Err(err).Str("method", "CaptureError").Msgf("Sent error to Sentry (ID: %v)", eventId)
		return true
	}
	return false
}
