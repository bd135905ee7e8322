package app

import (
	"fmt"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/ai"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/vectorindex"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/video/ytdlp"
	"github.com/custodia-labs/ragdesk/internal/adapters/driven/web"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
	"github.com/custodia-labs/ragdesk/internal/core/ports/driven"
	"github.com/custodia-labs/ragdesk/internal/core/services"
	"github.com/custodia-labs/ragdesk/internal/logger"
	"github.com/custodia-labs/ragdesk/internal/normalisers"
	"github.com/custodia-labs/ragdesk/internal/postprocessors/chunker"
)

// Deps are the driven adapters a workspace is assembled from.
type Deps struct {
	Embedder    driven.EmbeddingService
	LLM         driven.LLMService
	Transcriber driven.Transcriber // Nil disables video processing.
	Indexes     driven.IndexFactory
	Downloader  driven.AudioDownloader
	Fetcher     driven.PageFetcher
	Selector    driven.LinkSelector
	Normalisers driven.NormaliserRegistry
	Prompts     driven.PromptStore // Optional.
}

// DefaultDeps creates the production adapters described by settings. The
// returned release function closes them and is never nil.
func DefaultDeps(settings *domain.Settings, prompts driven.PromptStore) (Deps, func() error, error) {
	noop := func() error { return nil }

	aiServices, err := ai.Init(settings, prompts)
	if err != nil {
		return Deps{}, noop, err
	}
	for _, w := range aiServices.Warnings {
		logger.Warn("%s", w)
	}

	indexes, closeIndexes, err := vectorindex.NewFactory(settings.Index)
	if err != nil {
		aiServices.Close()
		return Deps{}, noop, err
	}

	selector := web.NewLLMSelector(aiServices.LLMService, settings.Web.MaxLinks)
	if prompts != nil {
		selector.SetPromptStore(prompts)
	}

	deps := Deps{
		Embedder:    aiServices.EmbeddingService,
		LLM:         aiServices.LLMService,
		Transcriber: aiServices.Transcriber,
		Indexes:     indexes,
		Downloader:  ytdlp.New(settings.Video.Downloader),
		Fetcher: web.NewFetcher(web.FetcherConfig{
			Timeout:           settings.Web.Timeout,
			UserAgent:         settings.Web.UserAgent,
			RequestsPerSecond: settings.Web.RequestsPerSecond,
		}),
		Selector:    selector,
		Normalisers: normalisers.Default(),
		Prompts:     prompts,
	}

	release := func() error {
		aiServices.Close()
		return closeIndexes()
	}
	return deps, release, nil
}

// NewWorkspace builds one pipeline per source kind and the services that
// feed them. Transcripts are chunked with the transcript profile, websites
// and documents with the document profile.
func NewWorkspace(settings *domain.Settings, deps Deps) (*services.Workspace, error) {
	summariser := services.NewSummariser(deps.LLM, deps.Prompts, settings.Summary.MaxInputChars)

	video, err := newPipeline(settings, deps, domain.SourceVideo, domain.TranscriptProfile, driven.PromptChatVideo)
	if err != nil {
		return nil, err
	}
	website, err := newPipeline(settings, deps, domain.SourceWebsite, domain.DocumentProfile, driven.PromptChatWebsite)
	if err != nil {
		return nil, err
	}
	document, err := newPipeline(settings, deps, domain.SourceDocument, domain.DocumentProfile, driven.PromptChatDocument)
	if err != nil {
		return nil, err
	}

	return services.NewWorkspace(
		services.NewVideoService(video, summariser, deps.Downloader, deps.Transcriber, settings.Video.TempDir),
		services.NewWebsiteService(website, summariser, deps.Fetcher, deps.Selector, settings.Web.MaxLinks),
		services.NewDocumentService(document, summariser, deps.Normalisers),
	), nil
}

func newPipeline(
	settings *domain.Settings,
	deps Deps,
	kind domain.SourceKind,
	profile domain.ChunkProfile,
	promptName string,
) (*services.RetrievalPipeline, error) {
	splitter, err := chunker.FromProfile(profile)
	if err != nil {
		return nil, fmt.Errorf("%s chunker: %w", kind, err)
	}

	return services.NewRetrievalPipeline(
		services.PipelineConfig{
			Kind:             kind,
			PromptName:       promptName,
			TopK:             settings.Retrieval.TopK,
			RewriteFollowUps: settings.Retrieval.RewriteFollowUps,
		},
		services.PipelineDeps{
			Splitter: splitter,
			Embedder: deps.Embedder,
			LLM:      deps.LLM,
			Indexes:  deps.Indexes,
			Prompts:  deps.Prompts,
		},
	)
}
