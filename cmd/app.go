package cmd

import (
	"cmp"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/abhisek/interviewer/internal/config"
	"github.com/abhisek/interviewer/internal/critique"
	"github.com/abhisek/interviewer/internal/intent"
	"github.com/abhisek/interviewer/internal/interview"
	"github.com/abhisek/interviewer/internal/llm"
	"github.com/abhisek/interviewer/internal/logger"
	"github.com/abhisek/interviewer/internal/question"
	"github.com/abhisek/interviewer/internal/scoring"
	"github.com/abhisek/interviewer/internal/session"
	"github.com/abhisek/interviewer/internal/store"
)

// app holds everything a command needs to run an interview.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	store     *store.Store
	provider  llm.Provider
	policies  llm.Policies
	questions *question.Corpus
	scorer    *scoring.Scorer
	critic    *critique.Critic
	machine   *interview.Machine

	closers []func() error
}

// setup loads configuration and builds the logger.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug)
	if err != nil {
		return nil, nil, fmt.Errorf("create logger: %w", err)
	}
	return cfg, log, nil
}

// openStore opens the exchange log. For SQLite an empty DSN means the
// default data path.
func openStore(cfg config.StoreConfig) (*store.Store, error) {
	dsn := cfg.DSN
	if cfg.Driver == "sqlite" {
		switch {
		case dsn == "":
			p, err := store.DefaultDBPath()
			if err != nil {
				return nil, fmt.Errorf("resolve database path: %w", err)
			}
			dsn = p
		case !strings.HasPrefix(dsn, "file:"):
			if err := store.EnsureDir(dsn); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
	}

	st, err := store.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// newApp wires the store, model provider, question corpus, session store
// and the interview machine. A missing or broken model provider is not an
// error: every component falls back to its offline tier.
func newApp(ctx context.Context) (*app, error) {
	cfg, log, err := setup()
	if err != nil {
		return nil, err
	}

	a := &app{cfg: cfg, log: log}

	st, err := openStore(cfg.Store)
	if err != nil {
		return nil, err
	}
	a.store = st
	a.closers = append(a.closers, st.Close)

	a.provider = a.newProvider(ctx)

	backend, err := newQuestionBackend(cfg.Questions)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("question backend: %w", err)
	}
	a.questions = question.NewCorpus(backend, log).WithTimeout(cfg.Questions.Timeout)

	sessions, err := a.newSessionStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.scorer = scoring.NewScorer(a.provider, scoring.DefaultConfig(), log)
	a.critic = critique.NewCritic(a.provider, critique.DefaultConfig(), log)
	intentBudget := a.policies.For(llm.PurposeIntent).Timeout
	router := intent.NewRouter(intent.NewModelClassifier(a.provider, intentBudget, log), log)

	a.machine = interview.New(interview.Deps{
		Sessions:  sessions,
		Questions: a.questions,
		Scorer:    a.scorer,
		Critic:    a.critic,
		Router:    router,
		Sink:      st.ExchangeRepo(),
		Log:       log,
	})
	return a, nil
}

func (a *app) newProvider(ctx context.Context) llm.Provider {
	cfg, ok := a.cfg.LLM.Resolve()
	if !ok {
		a.log.Info("no model provider configured, using offline scoring and critique")
		return nil
	}
	p, err := llm.NewProvider(ctx, cfg, a.store.EventRepo(), a.log)
	if err != nil {
		a.log.Warn("model provider unavailable, using offline scoring and critique", zap.Error(err))
		return nil
	}
	a.policies = cfg.Policies
	a.log.Info("model provider ready", zap.String("provider", cfg.Provider))
	for _, purpose := range llm.Purposes {
		pol := cfg.Policies.For(purpose)
		a.log.Debug("purpose policy",
			zap.String("purpose", string(purpose)),
			zap.String("model", cmp.Or(pol.Model, p.ModelID())),
			zap.Duration("timeout", pol.Timeout),
			zap.Int("max_attempts", pol.MaxAttempts),
		)
	}
	return p
}

func newQuestionBackend(cfg config.QuestionsConfig) (question.Backend, error) {
	switch cfg.Backend {
	case "yaml":
		s, err := question.LoadYAML(cfg.File)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "elasticsearch":
		es, err := question.NewElasticsearch(question.ElasticsearchOptions{
			Addresses: cfg.Elasticsearch.Addresses,
			Username:  cfg.Elasticsearch.Username,
			Password:  cfg.Elasticsearch.Password,
			Index:     cfg.Elasticsearch.Index,
			Timeout:   cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		return es, nil
	default:
		return question.Builtin(), nil
	}
}

func (a *app) newSessionStore(ctx context.Context) (session.Store, error) {
	if a.cfg.Sessions.Backend != "redis" {
		return session.NewMemoryStore(), nil
	}

	rs := session.NewRedisStore(session.RedisOptions{
		Address:  a.cfg.Sessions.Redis.Address,
		Password: a.cfg.Sessions.Redis.Password,
		DB:       a.cfg.Sessions.Redis.DB,
		TTL:      a.cfg.Sessions.TTL,
	})
	if err := rs.Ping(ctx); err != nil {
		rs.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", a.cfg.Sessions.Redis.Address, err)
	}
	a.closers = append(a.closers, rs.Close)
	return rs, nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn("close", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
