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

type appError string

func (e appError) Error() string {
	return string(e)
}

// Public returns the message that is safe to show to the caller
func (e appError) Public() string {
	return string(e)
}

var (
	// ErrNotFound an error that indicates that the given resource is not found
	ErrNotFound appError = "not found"
	// ErrForbidden is an error for a caller lacking the required capability
	ErrForbidden appError = "forbidden"
	// ErrLoginRequired is an error for not authorized
	ErrLoginRequired appError = "login required"
	// ErrLoginInvalid is an error for invalid login
	ErrLoginInvalid appError = "wrong login credentials"
	// ErrRegistrationDisabled is an error for a disabled registration
	ErrRegistrationDisabled appError = "registration is disabled"
	// ErrInvalidPayload is an error for a request body or query that cannot be decoded
	ErrInvalidPayload appError = "invalid payload"

	// ErrUsernameRequired is an error for missing username
	ErrUsernameRequired appError = "Please enter a username."
	// ErrPasswordRequired is an error for missing password
	ErrPasswordRequired appError = "Please enter a password."
	// ErrPasswordTooShort is an error for short password
	ErrPasswordTooShort appError = "password should be longer than 8 characters"
	// ErrDuplicateUsername is an error for duplicate username
	ErrDuplicateUsername appError = "duplicate username"
	// ErrCannotDeleteSelf is an error for an administrator removing their own account
	ErrCannotDeleteSelf appError = "you cannot delete your own account"
	// ErrInvalidPermissions is an error for an unparsable permission list
	ErrInvalidPermissions appError = "invalid permissions"

	// ErrFolderNotFound is an error for a folder that does not exist or
	// does not belong to the caller
	ErrFolderNotFound appError = "folder not found"
	// ErrFolderNameRequired is an error for a folder without a name
	ErrFolderNameRequired appError = "Please enter a folder name."
	// ErrDepthExceeded is an error for nesting a folder under a child folder
	ErrDepthExceeded appError = "folders can only be nested one level deep"
	// ErrFolderLocked is an error for listing an encrypted folder without a password
	ErrFolderLocked appError = "folder is locked"
	// ErrFolderPasswordIncorrect is an error for a wrong folder password
	ErrFolderPasswordIncorrect appError = "wrong folder password"

	// ErrInvalidFilter is an error for an unknown note listing filter
	ErrInvalidFilter appError = "invalid filter"

	// ErrShareNotFound is an error for a share link that does not exist
	ErrShareNotFound appError = "share not found"
	// ErrShareExpired is an error for a share link past its expiry
	ErrShareExpired appError = "share expired"
	// ErrSharePasswordRequired is an error for a missing or wrong share password
	ErrSharePasswordRequired appError = "password required"
)
