// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the ragdesk home directory (~/.ragdesk).
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: User-editable prompt templates with hot reload
package file
