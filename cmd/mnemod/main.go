// Command mnemod runs the assistant HTTP server.
//
// Configuration comes from the environment (or a local .env file):
//
//	ANTHROPIC_API_KEY    required
//	MNEMO_ADDR           listen address (default :8000)
//	MNEMO_MODEL          Claude model override
//	MNEMO_STORE          memory backend: chromem or inmem (default chromem)
//	MNEMO_HISTORY_DB     SQLite file for chat history (default mnemo_history.db)
//	MNEMO_STATIC_DIR     directory served at /static (default static)
//	MNEMO_RETRIEVE_LIMIT stored entries loaded per chat turn (default 15)
package main

import (
	"log"

	"github.com/mnemolabs/mnemo/config"
	"github.com/mnemolabs/mnemo/engine"
	"github.com/mnemolabs/mnemo/history"
	"github.com/mnemolabs/mnemo/memory"
	"github.com/mnemolabs/mnemo/memory/embedder/mock"
	chromemstore "github.com/mnemolabs/mnemo/memory/store/chromem"
	"github.com/mnemolabs/mnemo/memory/store/inmem"
	"github.com/mnemolabs/mnemo/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[CONFIG] %v", err)
	}

	var opts []engine.ClientOption
	if cfg.Model != "" {
		opts = append(opts, engine.WithModel(cfg.Model))
	}
	completer := engine.NewClient(cfg.AnthropicAPIKey, opts...)

	store, err := buildStore(cfg)
	if err != nil {
		log.Fatalf("[STORE] %v", err)
	}
	log.Printf("[STORE] Using %s backend", cfg.StoreBackend)

	hist, err := history.New(cfg.HistoryDB)
	if err != nil {
		log.Fatalf("[HISTORY] %v", err)
	}
	defer hist.Close()

	srv, err := server.New(server.Config{
		Extractor:     engine.NewExtractor(completer),
		Generator:     engine.NewGenerator(completer),
		Store:         store,
		History:       hist,
		RetrieveLimit: cfg.RetrieveLimit,
		StaticDir:     cfg.StaticDir,
	})
	if err != nil {
		log.Fatalf("[SERVER] %v", err)
	}

	if err := srv.Run(cfg.Addr); err != nil {
		log.Fatalf("[SERVER] %v", err)
	}
}

func buildStore(cfg *config.Config) (memory.Store, error) {
	switch cfg.StoreBackend {
	case config.StoreInmem:
		return inmem.New(), nil
	default:
		return chromemstore.New(mock.New())
	}
}
