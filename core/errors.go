// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

import "errors"

var (
	// ErrInvalidCandidate indicates a Candidate failed validation.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrEmptyText indicates the candidate has no resume text.
	ErrEmptyText = errors.New("resume text cannot be empty")

	// ErrNegativeScore indicates a numeric feature is below zero.
	ErrNegativeScore = errors.New("numeric feature cannot be negative")

	// ErrGPAOutOfRange indicates a GPA outside [0,10].
	ErrGPAOutOfRange = errors.New("gpa must be between 0 and 10")

	// ErrInvalidEmail indicates a malformed email address.
	ErrInvalidEmail = errors.New("invalid email address")

	// ErrTruncatedRecord indicates an encoded record ended early.
	ErrTruncatedRecord = errors.New("truncated record")
)
