// Copyright 2025 walteh LLC
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

package patch

// 📖 FormatDescription describes the changes JSON format for embedding in an
// LLM prompt, so a generating tool can produce documents ParseChanges
// accepts. It must stay in sync with the wire shapes and the boundary checks
// in json.go.
const FormatDescription = `The applydir tool applies code changes described in JSON. The document is
either a bare array of file entries, or an object with a single "files" key
holding that array. The array must be non-empty.

Each file entry has:
  - "file": path of the target file, relative to the base directory. Must be
    non-empty and must not escape the base directory.
  - "action": one of "replace_lines", "create_file", "delete_file". Omitted
    means "replace_lines".
  - "changes": an array of change objects. Required and non-empty for
    "replace_lines" and "create_file"; must be empty or omitted for
    "delete_file".

Each change object has:
  - "original_lines": the exact lines expected to exist in the file.
    Required and non-empty for "replace_lines"; must be empty for
    "create_file". The lines must identify a unique location: zero or
    multiple matches fail the change.
  - "changed_lines": the replacement lines (or, for "create_file", the full
    content of the new file). Required and non-empty for both actions.

Within one entry, changes apply in order and each change matches against the
file content produced by the previous ones. Files created by "create_file"
must not already exist; files deleted by "delete_file" must exist, and
deletion must be enabled in configuration.

Example:

{
  "files": [
    {
      "file": "src/main.py",
      "action": "replace_lines",
      "changes": [
        {
          "original_lines": ["print('Hello')"],
          "changed_lines": ["print('Hello, World!')"]
        }
      ]
    },
    {
      "file": "src/new.py",
      "action": "create_file",
      "changes": [
        {
          "original_lines": [],
          "changed_lines": ["def new_func():", "    pass"]
        }
      ]
    },
    {
      "file": "src/old.py",
      "action": "delete_file"
    }
  ]
}

Non-ASCII characters in changed_lines may be rejected or warned about per
file extension, depending on configuration.
`
