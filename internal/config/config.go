package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration loaded from config.yaml.
type Config struct {
	Git        GitConfig        `yaml:"git"`
	LLM        LLMConfig        `yaml:"llm"`
	Processing ProcessingConfig `yaml:"processing"`
	Email      EmailConfig      `yaml:"email"`
	Teams      TeamsConfig      `yaml:"teams"`
	State      StateConfig      `yaml:"state"`
	Schedule   ScheduleConfig   `yaml:"schedule"`
}

// GitConfig describes the tracked repository and how to reach it.
type GitConfig struct {
	RepoURL     string `yaml:"repo_url"`
	CloneDir    string `yaml:"clone_dir"`
	Branch      string `yaml:"branch"`
	AccessToken string `yaml:"access_token"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// LLMConfig selects and tunes the generation provider.
type LLMConfig struct {
	Provider    string  `yaml:"provider"` // "openai" | "claude" | "gemini"
	Model       string  `yaml:"model"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
	// AgentMode switches to the tool-calling agent variant that can read
	// extra files from the clone while writing a comment.
	AgentMode bool `yaml:"agent_mode"`
	// InfraFatal escalates generation failures from file-level to
	// run-aborting.
	InfraFatal bool `yaml:"infra_fatal"`
}

// ProcessingConfig bounds a single run.
type ProcessingConfig struct {
	ExcludePatterns   []string `yaml:"exclude_patterns"`
	ExcludeTests      bool     `yaml:"exclude_tests"`
	MaxFiles          int      `yaml:"max_files"`
	MaxMethodsPerFile int      `yaml:"max_methods_per_file"` // 0 = unlimited
	UpdateExisting    bool     `yaml:"update_existing"`
}

// EmailConfig configures the SMTP report delivery.
type EmailConfig struct {
	Enabled         bool     `yaml:"enabled"`
	SMTPServer      string   `yaml:"smtp_server"`
	SMTPPort        int      `yaml:"smtp_port"`
	From            string   `yaml:"from_email"`
	Password        string   `yaml:"password"`
	To              []string `yaml:"to_emails"`
	SubjectTemplate string   `yaml:"subject_template"`
}

// TeamsConfig configures the Teams webhook delivery.
type TeamsConfig struct {
	Enabled    bool   `yaml:"enabled"`
	WebhookURL string `yaml:"webhook_url"`
}

// StateConfig locates the run state record and the history archive.
type StateConfig struct {
	StateFile string `yaml:"state_file"`
	HistoryDB string `yaml:"history_db"`
	// CommitOnDryRun controls whether a --dry-run invocation still advances
	// the recorded commit. Off by default so a dry run never hides changes
	// from the next real run.
	CommitOnDryRun bool `yaml:"commit_on_dry_run"`
}

// ScheduleConfig drives serve mode.
type ScheduleConfig struct {
	Cron string `yaml:"cron"`
}

// Default returns a Config with the defaults the original deployment used.
func Default() *Config {
	return &Config{
		Git: GitConfig{
			Branch:      "PROD",
			AuthorName:  "Javadoc Bot",
			AuthorEmail: "javadoc-bot@localhost",
		},
		LLM: LLMConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
			MaxTokens:   1000,
		},
		Processing: ProcessingConfig{
			ExcludeTests:      true,
			MaxFiles:          50,
			MaxMethodsPerFile: 0,
		},
		Email: EmailConfig{
			SMTPPort:        587,
			SubjectTemplate: "Javadoc Generation Report - {date}",
		},
		State: StateConfig{
			StateFile: "javadocbot_state.json",
			HistoryDB: "javadocbot_history.db",
		},
		Schedule: ScheduleConfig{
			Cron: "0 2 * * *",
		},
	}
}

// Load reads configuration from a YAML file, applies env overrides for
// secrets, and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("configuration file %s not found; copy config.yaml.template and fill in your values", path)
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets secrets come from the environment (or a .env file
// loaded at startup) instead of living in config.yaml.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GIT_ACCESS_TOKEN"); v != "" {
		c.Git.AccessToken = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Email.Password = v
	}
	if v := os.Getenv("TEAMS_WEBHOOK_URL"); v != "" {
		c.Teams.WebhookURL = v
	}
}

// Validate checks the fields without which a run cannot even start.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.Git.RepoURL) == "" {
		missing = append(missing, "git.repo_url")
	}
	if strings.TrimSpace(c.Git.CloneDir) == "" {
		missing = append(missing, "git.clone_dir")
	}
	if strings.TrimSpace(c.Git.Branch) == "" {
		missing = append(missing, "git.branch")
	}
	if strings.TrimSpace(c.LLM.Provider) == "" {
		missing = append(missing, "llm.provider")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config is missing required fields: %s", strings.Join(missing, ", "))
	}

	switch strings.ToLower(c.LLM.Provider) {
	case "openai", "claude", "gemini":
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLM.Provider)
	}

	if c.Email.Enabled {
		if c.Email.SMTPServer == "" || c.Email.From == "" || len(c.Email.To) == 0 {
			return fmt.Errorf("email is enabled but smtp_server, from_email or to_emails is missing")
		}
	}
	if c.Teams.Enabled && c.Teams.WebhookURL == "" {
		return fmt.Errorf("teams is enabled but webhook_url is missing")
	}
	return nil
}
