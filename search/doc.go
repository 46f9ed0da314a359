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

// Package search answers recruiter prompts with a ranked candidate list.
//
// The Searcher runs a single query end to end:
//   - Normalize the prompt into structured filters
//   - Embed the prompt and retrieve the nearest resumes from the index
//   - Load those candidates, or every candidate when retrieval finds nothing
//   - Drop candidates that fail the filters
//   - Score the survivors under a weight profile and rank them
//
// When the embedding provider fails the query still runs: the full
// candidate pool is filtered and scored with a skill-overlap proxy in
// place of embedding similarity.
package search
