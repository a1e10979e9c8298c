package config

import "time"

type AppConfig struct {
	DBDriver   string `yaml:"db_driver" env:"BURNOUT_DB_DRIVER" env-default:"sqlite"`
	DBURL      string `yaml:"db_url" env:"BURNOUT_DB_URL"`
	DBPath     string `yaml:"db_path" env:"BURNOUT_DB_PATH" env-default:"data/burnout.db"`
	ListenAddr string `yaml:"listen_addr" env:"BURNOUT_LISTEN_ADDR" env-default:"0.0.0.0:8080"`
	AppEnv     string `yaml:"app_env" env:"BURNOUT_APP_ENV"`

	// AdminToken guards the operator endpoints (template refresh, retention
	// run). Empty disables them.
	AdminToken string `yaml:"admin_token" env:"BURNOUT_ADMIN_TOKEN"`

	Template  TemplateConfig  `yaml:"template"`
	Demo      DemoConfig      `yaml:"demo"`
	Retention RetentionConfig `yaml:"retention"`
}

type TemplateConfig struct {
	Path string `yaml:"path" env:"BURNOUT_TEMPLATE_PATH" env-default:"data/mock_analysis_data.json"`
}

type DemoConfig struct {
	IntegrationName string `yaml:"integration_name" env:"BURNOUT_DEMO_INTEGRATION_NAME" env-default:"Demo Analysis"`
	Note            string `yaml:"note" env:"BURNOUT_DEMO_NOTE" env-default:"This is a sample analysis to help you explore the platform"`
}

type RetentionConfig struct {
	Enabled  bool          `yaml:"enabled" env:"BURNOUT_RETENTION_ENABLED" env-default:"false"`
	Schedule string        `yaml:"schedule" env:"BURNOUT_RETENTION_SCHEDULE" env-default:"0 3 * * *"`
	MaxAge   time.Duration `yaml:"max_age" env:"BURNOUT_RETENTION_MAX_AGE" env-default:"2160h"`
}
