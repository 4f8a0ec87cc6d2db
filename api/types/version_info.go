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

package types

// VersionDetail represents detail information of version.
type VersionDetail struct {
	// FolioVersion is the version of the Folio binary.
	FolioVersion string `json:"folioVersion" yaml:"folioVersion"`

	// GitCommit is the commit the binary was built from.
	GitCommit string `json:"gitCommit,omitempty" yaml:"gitCommit,omitempty"`

	GoVersion string `json:"goVersion" yaml:"goVersion"`
	BuildDate string `json:"buildDate" yaml:"buildDate"`
}
