// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Pipeline Interfaces
//
//   - Splitter: Breaks text into overlapping chunks
//   - EmbeddingService: Turns text into vectors (OpenAI, Ollama, Gemini)
//   - VectorIndex / IndexFactory: Stores vectors and answers k-NN queries
//   - LLMService: Chat completion for answers, summaries and link selection
//
// # Source Interfaces
//
//   - AudioDownloader: Fetches a video's audio track to a local file
//   - Transcriber: Speech-to-text over a local audio file
//   - PageFetcher: Fetches a web page as readable text plus links
//   - LinkSelector: Picks the linked pages worth crawling
//   - Normaliser: Extracts plain text from an uploaded document
//
// # Configuration Interfaces
//
//   - ConfigStore: Persistent key/value configuration
//   - PromptStore: Overridable prompt templates
//   - AIConfigValidator: Connectivity checks for AI providers
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
