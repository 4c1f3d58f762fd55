/* Copyright 2025 Notevault Authors
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

package app

import (
	"testing"

	"github.com/notevault/notevault/pkg/clock"
	"github.com/notevault/notevault/pkg/server/testutils"
)

// newTestApp returns a test app backed by a fresh database and a mock clock
func newTestApp(t *testing.T) (App, *clock.Mock) {
	mockClock := clock.NewMock()

	a := NewTest()
	a.DB = testutils.InitMemoryDB(t)
	a.Clock = mockClock

	return a, mockClock
}

func strPtr(s string) *string {
	return &s
}

func boolPtr(b bool) *bool {
	return &b
}
