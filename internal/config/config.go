package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type ConnectionConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Username       string `yaml:"username"`
	Database       string `yaml:"database"`
	SSLMode        string `yaml:"sslmode"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

type LoadConfig struct {
	Table          string   `yaml:"table"`
	Schema         string   `yaml:"schema,omitempty"`
	Columns        []string `yaml:"columns,omitempty"`
	Delimiter      string   `yaml:"delimiter,omitempty"`
	NullToken      string   `yaml:"null_token,omitempty"`
	Pattern        string   `yaml:"pattern,omitempty"`
	SequenceTable  string   `yaml:"sequence_table,omitempty"`
	PartitionInfix string   `yaml:"partition_infix,omitempty"`
	PartitionWidth int      `yaml:"partition_width,omitempty"`
}

type CronConfig struct {
	RollSchedule        string `yaml:"roll_schedule,omitempty"`
	MaintenanceSchedule string `yaml:"maintenance_schedule,omitempty"`
}

type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Load       LoadConfig       `yaml:"load"`
	Cron       CronConfig       `yaml:"cron"`
	Timeout    string           `yaml:"timeout"`
}

const ConfigFileName = "pgbulk.yaml"

func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
