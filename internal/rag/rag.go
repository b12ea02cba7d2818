package rag

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/embeddings"

	"github.com/Velmurugan2695/document-question-answer/internal/chromemdb"
	"github.com/Velmurugan2695/document-question-answer/internal/config"
	"github.com/Velmurugan2695/document-question-answer/internal/llmservice"
	"github.com/Velmurugan2695/document-question-answer/internal/models"
	"github.com/Velmurugan2695/document-question-answer/internal/parser"
)

// ErrInvalidOption is returned for request options that can never work.
var ErrInvalidOption = errors.New("invalid option")

// Retriever looks up the chunks closest to a query.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]models.SearchResult, error)
}

// Options override the configured defaults for one request. Zero values
// keep the configured setting; Overlap is a pointer because 0 is a valid
// overlap.
type Options struct {
	Model     string
	Strategy  string
	TopK      int
	ChunkSize int
	Overlap   *int
}

type settings struct {
	model       string
	strategy    string
	topK        int
	chunkSize   int
	overlap     int
	maxChars    int
	workers     int
	temperature float64
	timeout     time.Duration
}

// RAG answers questions about a single document.
type RAG struct {
	embedder embeddings.Embedder
	chat     llmservice.ChatClient
	cfg      *config.Config
}

func NewRAG(embedder embeddings.Embedder, chat llmservice.ChatClient, cfg *config.Config) *RAG {
	return &RAG{embedder: embedder, chat: chat, cfg: cfg}
}

// Ask extracts the uploaded file and answers every question in
// questionInput. Extraction errors abort before any chunking or embedding.
func (r *RAG) Ask(ctx context.Context, filename string, file io.Reader, questionInput string, opts Options) (models.AnswerMap, error) {
	doc, err := parser.ReadDocument(filename, file)
	if err != nil {
		return nil, err
	}
	return r.AnswerQuestions(ctx, doc, parser.SplitQuestions(questionInput), opts)
}

// AskQuestions is Ask for a question list that is already split, as sent
// to the batch API.
func (r *RAG) AskQuestions(ctx context.Context, filename string, file io.Reader, questions []string, opts Options) (models.AnswerMap, error) {
	doc, err := parser.ReadDocument(filename, file)
	if err != nil {
		return nil, err
	}
	return r.AnswerQuestions(ctx, doc, parser.QuestionsFromList(questions), opts)
}

// AnswerQuestions runs the configured strategy over an extracted document.
func (r *RAG) AnswerQuestions(ctx context.Context, doc *models.Document, questions []models.Question, opts Options) (models.AnswerMap, error) {
	s, err := r.resolve(opts)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return models.AnswerMap{}, nil
	}

	logger := log.Ctx(ctx).With().Str("strategy", s.strategy).Str("model", s.model).Logger()
	logger.Info().Str("filename", doc.Filename).Int("questions", len(questions)).Msg("Answering questions")

	if s.strategy == config.StrategyWhole {
		answers := r.answerWhole(ctx, doc.Text, questions, s)
		return answers, ctx.Err()
	}

	chunks, err := parser.ChunkText(doc.Text, s.chunkSize, s.overlap)
	if err != nil {
		return nil, err
	}
	idx, err := chromemdb.Build(ctx, r.embedder, chunks)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}
	logger.Debug().Int("chunks", len(chunks)).Int("dimension", idx.Dimension()).Msg("Index ready")

	return r.answer(ctx, idx, questions, s)
}

// Answer runs one retrieval and one LLM round trip per question against an
// index built for the current document.
func (r *RAG) Answer(ctx context.Context, idx Retriever, questions []models.Question, opts Options) (models.AnswerMap, error) {
	s, err := r.resolve(opts)
	if err != nil {
		return nil, err
	}
	return r.answer(ctx, idx, questions, s)
}

func (r *RAG) answer(ctx context.Context, idx Retriever, questions []models.Question, s settings) (models.AnswerMap, error) {
	answers := make(models.AnswerMap, len(questions))
	var mu sync.Mutex
	record := func(key string, v any) {
		mu.Lock()
		answers[key] = v
		mu.Unlock()
	}

	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return nil, fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, q := range questions {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			v, err := r.answerQuestion(ctx, idx, q, s)
			if err != nil {
				log.Ctx(ctx).Warn().Err(err).Str("key", q.Key()).Msg("Question failed")
				v = inlineValue(err)
			}
			record(q.Key(), v)
		})
		if err != nil {
			wg.Done()
			record(q.Key(), inlineValue(err))
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return answers, err
	}
	return answers, nil
}

func (r *RAG) answerQuestion(ctx context.Context, idx Retriever, q models.Question, s settings) (any, error) {
	key := q.Key()

	results, err := idx.Search(ctx, q.Text, s.topK)
	if err != nil {
		return nil, &RetrievalTransportError{Key: key, Err: err}
	}

	reply, err := r.complete(ctx, s, BuildQuestionPrompt(q, results))
	if err != nil {
		return nil, newTransportError(key, err)
	}

	v, err := parseAnswer(key, reply)
	if err != nil {
		return nil, err
	}
	log.Ctx(ctx).Debug().Str("key", key).Int("context_chunks", len(results)).Msg("Question answered")
	return v, nil
}

// answerWhole sends the truncated document and every question in one
// prompt. A failed call or unparsable reply is recorded under every key.
func (r *RAG) answerWhole(ctx context.Context, text string, questions []models.Question, s settings) models.AnswerMap {
	answers := make(models.AnswerMap, len(questions))
	setAll := func(err error) models.AnswerMap {
		for _, q := range questions {
			answers[q.Key()] = inlineValue(err)
		}
		return answers
	}

	reply, err := r.complete(ctx, s, BuildDocumentPrompt(Truncate(text, s.maxChars), questions))
	if err != nil {
		return setAll(newTransportError("document", err))
	}

	obj, err := ParseReply(reply)
	if err != nil {
		return setAll(&AnswerParseError{Key: "document", Raw: reply, Err: err})
	}
	for k, v := range obj {
		answers[k] = v
	}
	for _, q := range questions {
		if _, ok := answers[q.Key()]; !ok {
			answers[q.Key()] = inlineValue(&AnswerParseError{Key: q.Key(), Raw: reply, Err: fmt.Errorf("reply has no %q key", q.Key())})
		}
	}
	return answers
}

func (r *RAG) complete(ctx context.Context, s settings, prompt string) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return r.chat.Complete(ctx, llmservice.CompletionRequest{
		Model: s.model,
		Messages: []llmservice.Message{
			{Role: llmservice.RoleSystem, Content: models.SystemPrompt},
			{Role: llmservice.RoleUser, Content: prompt},
		},
		Temperature: s.temperature,
	})
}

func (r *RAG) resolve(opts Options) (settings, error) {
	s := settings{
		model:       r.cfg.LLM.Model,
		strategy:    r.cfg.RAG.Strategy,
		topK:        r.cfg.RAG.TopK,
		chunkSize:   r.cfg.RAG.ChunkSize,
		overlap:     r.cfg.RAG.ChunkOverlap,
		maxChars:    r.cfg.RAG.MaxChars,
		workers:     r.cfg.RAG.Workers,
		temperature: r.cfg.LLM.Temperature,
		timeout:     r.cfg.LLM.Timeout,
	}
	if opts.Model != "" {
		s.model = opts.Model
	}
	if opts.Strategy != "" {
		s.strategy = opts.Strategy
	}
	if opts.TopK > 0 {
		s.topK = opts.TopK
	}
	if opts.ChunkSize > 0 {
		s.chunkSize = opts.ChunkSize
	}
	if opts.Overlap != nil {
		s.overlap = *opts.Overlap
	}
	if opts.TopK < 0 || opts.ChunkSize < 0 {
		return settings{}, fmt.Errorf("%w: top_k and chunk_size must not be negative", ErrInvalidOption)
	}
	if s.workers <= 0 {
		s.workers = 1
	}

	switch s.strategy {
	case config.StrategyChunked, config.StrategyWhole:
	default:
		return settings{}, fmt.Errorf("%w: unknown strategy %q", ErrInvalidOption, s.strategy)
	}
	return s, nil
}
