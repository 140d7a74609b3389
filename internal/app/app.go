package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"minerva/internal/chunking"
	"minerva/internal/config"
	"minerva/internal/services"
	"minerva/internal/store"
	"minerva/internal/store/modelstore"
	"minerva/internal/store/primary"
	"minerva/pkg/classifier"

	log "github.com/sirupsen/logrus"
)

// App wires the stores and services behind every command. One App instance is
// built per process in the root command's PersistentPreRunE.
type App struct {
	Config *config.Config

	CorpusStore   store.CorpusStore
	CategoryStore store.CategoryStore
	TagStore      store.TagStore
	LogStore      store.LogStore
	JobStore      store.JobStore
	ModelStore    store.ModelStore
	JobClient     store.JobClient

	Tokenizer classifier.Tokenizer

	ClassificationService *services.ClassificationService
	CorpusService         *services.CorpusService

	primaryStore *primary.StoreImpl
}

// Options toggle optional subsystems. The CLI skips the Redis job client for
// commands that never enqueue work.
type Options struct {
	WithJobClient bool
}

func NewApp(cfg *config.Config, opts Options) (*App, error) {
	ctx := context.Background()
	a := &App{Config: cfg}

	if err := a.initPrimaryStore(ctx); err != nil {
		return nil, err
	}
	if err := a.initModelStore(); err != nil {
		a.Close()
		return nil, err
	}
	if opts.WithJobClient {
		if err := a.initJobClient(); err != nil {
			a.Close()
			return nil, err
		}
	}
	if err := a.initServices(ctx); err != nil {
		a.Close()
		return nil, err
	}

	log.Debug("Application initialization complete")
	return a, nil
}

// Close releases external resources. Safe to call on a partially built App.
func (a *App) Close() {
	if a.JobClient != nil {
		if err := a.JobClient.Close(); err != nil {
			log.WithError(err).Warn("Failed to close job client")
		}
	}
	if a.primaryStore != nil {
		if err := a.primaryStore.Close(); err != nil {
			log.WithError(err).Warn("Failed to close database")
		}
	}
}

func (a *App) initPrimaryStore(ctx context.Context) error {
	ps, err := primary.NewPrimaryStore(ctx, a.Config.Database.Path)
	if err != nil {
		return fmt.Errorf("init primary store: %w", err)
	}
	a.primaryStore = ps
	a.CorpusStore = ps
	a.CategoryStore = ps
	a.TagStore = ps
	a.LogStore = ps
	a.JobStore = ps
	return nil
}

func (a *App) initModelStore() error {
	ms, err := modelstore.NewFileStore(a.Config.Model.Dir)
	if err != nil {
		return fmt.Errorf("init model store: %w", err)
	}
	a.ModelStore = ms
	return nil
}

func (a *App) initJobClient() error {
	jc, err := store.NewAsynqJobClient(a.Config.Redis.Address, a.Config.Redis.Password, a.Config.Redis.DB, a.JobStore)
	if err != nil {
		return fmt.Errorf("init job client: %w", err)
	}
	a.JobClient = jc
	return nil
}

func (a *App) initServices(ctx context.Context) error {
	extra, err := loadStopwords(a.Config.Tokenizer.StopwordsPath)
	if err != nil {
		return err
	}
	a.Tokenizer = classifier.NewTokenizer(extra...)
	a.ClassificationService = services.NewClassificationService(
		a.Config, a.CorpusStore, a.CategoryStore, a.TagStore, a.LogStore, a.ModelStore, a.Tokenizer,
	)
	splitter := chunking.NewSplitter(a.Config.Chunking.MaxSentences, a.Config.Chunking.Overlap)
	a.CorpusService = services.NewCorpusService(a.CorpusStore, a.CategoryStore, splitter)

	if err := a.ClassificationService.LoadModel(ctx); err != nil {
		return fmt.Errorf("load model: %w", err)
	}
	return nil
}

// loadStopwords reads an optional extra-stopwords file, one word per line.
func loadStopwords(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stopwords file %s: %w", path, err)
	}
	var words []string
	for _, line := range strings.Split(string(data), "\n") {
		if w := strings.TrimSpace(line); w != "" && !strings.HasPrefix(w, "#") {
			words = append(words, w)
		}
	}
	return words, nil
}
