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

// Package assert provides functions to assert a condition in tests
package assert

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func checkEqual(a, b interface{}, message string) (bool, string) {
	if a == b {
		return true, ""
	}

	m := message
	if m == "" {
		m = fmt.Sprintf("%v != %v", a, b)
	}

	return false, fmt.Sprintf("%s. Actual: %+v. Expected: %+v.", m, a, b)
}

// Equal errors a test if the actual does not match the expected
func Equal(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if ok, m := checkEqual(a, b, message); !ok {
		t.Error(m)
	}
}

// Equalf fails a test immediately if the actual does not match the expected
func Equalf(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if ok, m := checkEqual(a, b, message); !ok {
		t.Fatal(m)
	}
}

// NotEqual errors a test if the actual matches the expected
func NotEqual(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if a == b {
		t.Errorf("%s. Expected %+v to differ from %+v.", message, a, b)
	}
}

// DeepEqual errors a test if the actual is not structurally equal to the expected
func DeepEqual(t *testing.T, a, b interface{}, message string) {
	t.Helper()

	if diff := cmp.Diff(b, a); diff != "" {
		t.Errorf("%s (-expected +actual):\n%s", message, diff)
	}
}

// StatusCodeEquals errors a test if the response status code does not match
// the expected. The response body is included in the failure message.
func StatusCodeEquals(t *testing.T, res *http.Response, expected int, message string) {
	t.Helper()

	if res.StatusCode == expected {
		return
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}

	t.Errorf("%s. status code mismatch. Actual: %d. Expected: %d. Body: %s", message, res.StatusCode, expected, string(body))
}
