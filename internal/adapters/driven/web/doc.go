// Package web fetches web pages as readable text and chooses which of a
// landing page's links are worth following.
//
// Fetcher is throttled by a token bucket and backs off when a host answers
// 429. LLMSelector asks the configured LLM to classify links and falls back
// to keyword matching when the model is unavailable or answers badly.
package web
