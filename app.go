package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"javadocbot/internal/config"
	"javadocbot/internal/database"
	"javadocbot/internal/llm/client"
	"javadocbot/internal/models"
	"javadocbot/internal/notify"
	"javadocbot/internal/repositories"
	"javadocbot/internal/scheduler"
	"javadocbot/internal/services"
	"javadocbot/internal/state"
)

// App wires the configured services together and drives the pipeline.
type App struct {
	cfg        *config.Config
	gitService *services.GitService
	resolver   *services.ResolverService
	stateStore *state.Store
	history    *services.HistoryService
	keyring    *services.KeyringService
	notifier   notify.Notifier
}

// NewApp builds the service graph from a validated configuration.
func NewApp(cfg *config.Config) *App {
	kr := services.NewKeyringService()

	gitToken := kr.ResolveSecret("git_access_token", "GIT_ACCESS_TOKEN", cfg.Git.AccessToken)
	git := services.NewGitService(
		cfg.Git.RepoURL,
		cfg.Git.CloneDir,
		cfg.Git.Branch,
		gitToken,
		cfg.Git.AuthorName,
		cfg.Git.AuthorEmail,
	)

	app := &App{
		cfg:        cfg,
		gitService: git,
		resolver:   services.NewResolverService(cfg.Git.CloneDir, cfg.Processing.ExcludePatterns, cfg.Processing.ExcludeTests),
		stateStore: state.NewStore(cfg.State.StateFile),
		keyring:    kr,
		notifier:   buildNotifier(cfg, kr),
	}

	// the archive is optional; a run proceeds without it
	if cfg.State.HistoryDB != "" {
		db, err := database.Init(cfg.State.HistoryDB)
		if err != nil {
			log.Printf("run history disabled: %v", err)
		} else {
			app.history = services.NewHistoryService(repositories.NewRunRecordRepository(db))
		}
	}
	return app
}

func buildNotifier(cfg *config.Config, kr *services.KeyringService) notify.Notifier {
	var notifiers []notify.Notifier
	if cfg.Email.Enabled {
		emailCfg := cfg.Email
		emailCfg.Password = kr.ResolveSecret("smtp_password", "SMTP_PASSWORD", emailCfg.Password)
		notifiers = append(notifiers, notify.NewEmailNotifier(emailCfg))
	}
	if cfg.Teams.Enabled {
		url := kr.ResolveSecret("teams_webhook_url", "TEAMS_WEBHOOK_URL", cfg.Teams.WebhookURL)
		notifiers = append(notifiers, notify.NewTeamsNotifier(url))
	}
	if len(notifiers) == 0 {
		return notify.NoopNotifier{}
	}
	return notify.NewMultiNotifier(notifiers...)
}

// RunOnce executes one full pipeline pass and archives the outcome.
func (a *App) RunOnce(ctx context.Context, forceFull, dryRun bool) error {
	startedAt := time.Now()
	report, startCommit, err := a.runPipeline(ctx, forceFull, dryRun)
	if a.history != nil {
		a.history.RecordRun(report, startCommit, startedAt, err)
	}
	return err
}

func (a *App) runPipeline(ctx context.Context, forceFull, dryRun bool) (*models.RunReport, string, error) {
	log.Printf("phase: syncing repository")
	if err := a.gitService.EnsureRepository(); err != nil {
		return nil, "", err
	}
	if err := a.gitService.PullTracked(); err != nil {
		return nil, "", err
	}
	head, err := a.gitService.CurrentHead()
	if err != nil {
		return nil, "", err
	}

	log.Printf("phase: loading state")
	runState, err := a.stateStore.Load()
	if err != nil {
		return nil, "", fmt.Errorf("cannot start run: %w (use 'javadocbot state reset --confirm' after inspecting the file)", err)
	}
	startCommit := runState.LastCommit

	log.Printf("phase: resolving files (head %s)", head)
	changeSet, err := a.resolver.Resolve(runState, head, a.gitService, forceFull)
	if err != nil {
		var diverged *services.HistoryDivergedError
		if errors.As(err, &diverged) {
			return nil, startCommit, fmt.Errorf("%w; rerun with --full to rebaseline", diverged)
		}
		return nil, startCommit, err
	}

	generator, err := a.buildGenerator(ctx)
	if err != nil {
		return nil, startCommit, err
	}

	log.Printf("phase: documenting %d files (%s)", len(changeSet.Files), changeSet.Mode)
	session := services.NewSessionService(a.gitService, generator, services.SessionOptions{
		MaxFiles:          a.cfg.Processing.MaxFiles,
		MaxMethodsPerFile: a.cfg.Processing.MaxMethodsPerFile,
		UpdateExisting:    a.cfg.Processing.UpdateExisting,
		DryRun:            dryRun,
		InfraFatal:        a.cfg.LLM.InfraFatal,
	})
	report, err := session.Run(ctx, changeSet, head)
	if err != nil {
		return report, startCommit, err
	}

	log.Printf("phase: reporting")
	if err := a.notifier.Send(report); err != nil {
		// the branch is already pushed; a broken channel must not fail the run
		log.Printf("report delivery incomplete: %v", err)
	}

	log.Printf("phase: committing state")
	if dryRun && !a.cfg.State.CommitOnDryRun {
		log.Printf("dry run: state not advanced")
		return report, startCommit, nil
	}
	next := runState.Advance(head, time.Now(), report)
	if err := a.stateStore.Commit(next); err != nil {
		return report, startCommit, fmt.Errorf("run succeeded but state commit failed: %w", err)
	}
	return report, startCommit, nil
}

func (a *App) buildGenerator(ctx context.Context) (client.Generator, error) {
	llmCfg := client.Config{
		Provider:    client.Provider(a.cfg.LLM.Provider),
		APIKey:      a.keyring.ResolveSecret("llm_api_key", "LLM_API_KEY", a.cfg.LLM.APIKey),
		Model:       a.cfg.LLM.Model,
		BaseURL:     a.cfg.LLM.BaseURL,
		Temperature: a.cfg.LLM.Temperature,
		MaxTokens:   a.cfg.LLM.MaxTokens,
	}
	if a.cfg.LLM.AgentMode {
		return client.NewAgentGenerator(ctx, llmCfg, a.cfg.Git.CloneDir)
	}
	return client.NewChatGenerator(ctx, llmCfg)
}

// Serve blocks, running the pipeline on the configured cron schedule until
// the context is cancelled.
func (a *App) Serve(ctx context.Context) error {
	sched, err := scheduler.New(a.cfg.Schedule.Cron, func(ctx context.Context) error {
		return a.RunOnce(ctx, false, false)
	})
	if err != nil {
		return err
	}
	return sched.Run(ctx)
}
