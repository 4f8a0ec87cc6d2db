/*
 * Copyright 2025 The Yorkie Authors. All rights reserved.
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

package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/event"
	"go.uber.org/zap"

	"github.com/yorkie-team/folio/server/logging"
)

// MonitorConfig is the configuration of the command monitor.
type MonitorConfig struct {
	// Enabled is whether commands are logged.
	Enabled bool

	// SlowQueryThreshold is the duration above which a command is logged as
	// slow. Zero disables slow query logging.
	SlowQueryThreshold time.Duration
}

// newCommandMonitor returns a monitor logging the commands sent to MongoDB,
// or nil when monitoring is disabled.
func newCommandMonitor(conf *MonitorConfig) *event.CommandMonitor {
	if conf == nil || !conf.Enabled {
		return nil
	}
	logger := logging.New("mongo")

	return &event.CommandMonitor{
		Started: func(_ context.Context, evt *event.CommandStartedEvent) {
			if logging.Enabled(zap.DebugLevel) {
				logger.Debugw("command started",
					"request", evt.RequestID,
					"command", evt.CommandName,
					"body", evt.Command.String(),
				)
			}
		},
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			fields := []interface{}{
				"request", evt.RequestID,
				"command", evt.CommandName,
				"ms", evt.Duration.Milliseconds(),
			}
			if conf.SlowQueryThreshold > 0 && evt.Duration > conf.SlowQueryThreshold {
				logger.Warnw("slow command", fields...)
				return
			}
			logger.Debugw("command succeeded", fields...)
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			fields := []interface{}{
				"request", evt.RequestID,
				"command", evt.CommandName,
				"ms", evt.Duration.Milliseconds(),
				"failure", evt.Failure,
			}
			// Unique violations reach callers as validation errors.
			if isDuplicateKey(evt.Failure) {
				logger.Debugw("command failed", fields...)
				return
			}
			logger.Warnw("command failed", fields...)
		},
	}
}

func isDuplicateKey(failure string) bool {
	return strings.Contains(failure, "E11000 duplicate key")
}
