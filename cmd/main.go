package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Velmurugan2695/document-question-answer/internal/config"
	"github.com/Velmurugan2695/document-question-answer/internal/embedding"
	"github.com/Velmurugan2695/document-question-answer/internal/helper"
	"github.com/Velmurugan2695/document-question-answer/internal/llmservice"
	"github.com/Velmurugan2695/document-question-answer/internal/rag"
	"github.com/Velmurugan2695/document-question-answer/internal/render"
	"github.com/Velmurugan2695/document-question-answer/internal/server"
)

const configFilePath = "./configs/config.yaml"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "docqa",
		Short:        "Answer questions about a PDF, DOCX or EML document with an LLM",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", configFilePath, "Path to the config file")

	root.AddCommand(newServeCmd(&configPath), newAskCmd(&configPath))
	return root
}

func newServeCmd(configPath *string) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}

			r, err := newRAG(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(&cfg.Server, r).Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address, overrides server.addr")
	return cmd
}

func newAskCmd(configPath *string) *cobra.Command {
	var (
		filePath  string
		questions string
		format    string
		opts      rag.Options
		overlap   int
	)

	cmd := &cobra.Command{
		Use:   "ask",
		Short: "Answer questions about a local document and print the answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("overlap") {
				opts.Overlap = &overlap
			}

			r, err := newRAG(cfg)
			if err != nil {
				return err
			}

			f, err := os.Open(filePath)
			if err != nil {
				return err
			}
			defer f.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			answers, err := r.Ask(ctx, filepath.Base(filePath), f, questions, opts)
			if err != nil {
				log.Error().Err(err).Str("file", filePath).Msg("Error answering questions")
				return err
			}

			switch format {
			case "markdown":
				fmt.Fprint(cmd.OutOrStdout(), render.Markdown(answers))
			default:
				helper.PrettyPrint(cmd.OutOrStdout(), answers)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&filePath, "file", "f", "", "Path to the document file (.pdf, .docx, .eml)")
	cmd.Flags().StringVarP(&questions, "questions", "q", "", "Questions, one per line or separated by '?'")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or markdown")
	cmd.Flags().StringVar(&opts.Model, "model", "", "LLM model, overrides llm.model")
	cmd.Flags().StringVar(&opts.Strategy, "strategy", "", "chunked or whole, overrides rag.strategy")
	cmd.Flags().IntVar(&opts.TopK, "top-k", 0, "Chunks retrieved per question")
	cmd.Flags().IntVar(&opts.ChunkSize, "chunk-size", 0, "Chunk size in characters")
	cmd.Flags().IntVar(&overlap, "overlap", 0, "Chunk overlap in characters")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("questions")
	return cmd
}

// loadConfig reads the config file and sets up the global logger. A missing
// file at the default path falls back to built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) && path == configFilePath {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	setupLogger(&cfg.Log)
	log.Debug().Interface("rag", cfg.RAG).Str("llm_model", cfg.LLM.Model).Str("embedding_model", cfg.EmbedLLM.Model).Msg("Loaded config")
	return cfg, nil
}

func setupLogger(cfg *config.LogConfig) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Format == "json" {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Caller().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()
	}
	zerolog.DefaultContextLogger = &log.Logger
}

// newRAG builds the process wide embedder and chat client once and hands
// them to the pipeline.
func newRAG(cfg *config.Config) (*rag.RAG, error) {
	embedder, err := embedding.New(&cfg.EmbedLLM)
	if err != nil {
		return nil, fmt.Errorf("error initializing embedder: %w", err)
	}
	chat, err := llmservice.NewClient(&cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("error initializing llm client: %w", err)
	}
	return rag.NewRAG(embedder, chat, cfg), nil
}
