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

package log

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/pkg/errors"
)

func TestShouldLog(t *testing.T) {
	defer SetLevel(LevelInfo)

	testCases := []struct {
		currentLevel string
		logLevel     string
		expected     bool
	}{
		{LevelDebug, LevelDebug, true},
		{LevelDebug, LevelError, true},
		{LevelInfo, LevelDebug, false},
		{LevelInfo, LevelInfo, true},
		{LevelInfo, LevelWarn, true},
		{LevelWarn, LevelInfo, false},
		{LevelWarn, LevelError, true},
		{LevelError, LevelWarn, false},
		{LevelError, LevelError, true},
		{"bogus", LevelDebug, false},
		{"bogus", LevelInfo, true},
	}

	for _, tc := range testCases {
		SetLevel(tc.currentLevel)

		if got := shouldLog(tc.logLevel); got != tc.expected {
			t.Errorf("level %s logging %s: expected %t, got %t", tc.currentLevel, tc.logLevel, tc.expected, got)
		}
	}
}

func TestEntryWrite(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	WithFields(Fields{
		"note_uuid": "8f1c",
		"err":       errors.New("boom"),
	}).Warn("something happened")

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("unmarshalling log line %q: %v", buf.String(), err)
	}

	if got[fieldKeyLevel] != LevelWarn {
		t.Errorf("level mismatch: %v", got[fieldKeyLevel])
	}
	if got[fieldKeyMessage] != "something happened" {
		t.Errorf("message mismatch: %v", got[fieldKeyMessage])
	}
	if got["note_uuid"] != "8f1c" {
		t.Errorf("field mismatch: %v", got["note_uuid"])
	}
	if got["err"] != "boom" {
		t.Errorf("error field should be serialized as its message: %v", got["err"])
	}
}

func TestDebugSuppressedAtInfo(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetLevel(LevelInfo)
	defer SetOutput(os.Stderr)

	Debug("hidden")

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
