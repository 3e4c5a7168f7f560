package publishers

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	TypeQueue = "queue"
	TypeHTTP  = "http"
	TypeS3    = "s3"

	QueueProviderAWSSQS = "aws-sqs"
	QueueProviderAWSSNS = "aws-sns"
	QueueProviderGCP    = "gcp"

	httpDefaultMethod         = "POST"
	httpDefaultTimeoutSeconds = 5
	s3DefaultKey              = "reports/{date}/daily_news_report.html"
)

type configFile struct {
	Publishers []Config `json:"publishers" yaml:"publishers"`
}

// Config is one publisher entry of the publishers file.
type Config struct {
	ID      string       `json:"id" yaml:"id"`
	Type    string       `json:"type" yaml:"type"`
	Enabled *bool        `json:"enabled" yaml:"enabled"`
	Queue   *QueueConfig `json:"queue" yaml:"queue"`
	HTTP    *HTTPConfig  `json:"http" yaml:"http"`
	S3      *S3Config    `json:"s3" yaml:"s3"`
}

// AWSCredentials are optional static keys; empty keys use the default chain.
type AWSCredentials struct {
	Region          string `json:"region" yaml:"region"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// QueueConfig selects a cloud queue provider.
type QueueConfig struct {
	Provider string     `json:"provider" yaml:"provider"`
	SQS      *SQSConfig `json:"sqs" yaml:"sqs"`
	SNS      *SNSConfig `json:"sns" yaml:"sns"`
	GCP      *GCPConfig `json:"gcp" yaml:"gcp"`
}

// SQSConfig targets one SQS queue.
type SQSConfig struct {
	QueueURL       string `json:"queue_url" yaml:"queue_url"`
	AWSCredentials `json:",inline" yaml:",inline"`
}

// SNSConfig targets one SNS topic.
type SNSConfig struct {
	TopicARN       string `json:"topic_arn" yaml:"topic_arn"`
	AWSCredentials `json:",inline" yaml:",inline"`
}

// GCPConfig targets one Pub/Sub topic.
type GCPConfig struct {
	ProjectID       string `json:"project_id" yaml:"project_id"`
	Topic           string `json:"topic" yaml:"topic"`
	CredentialsFile string `json:"credentials_file" yaml:"credentials_file"`
}

// HTTPConfig posts the digest as JSON to a webhook.
type HTTPConfig struct {
	URL            string            `json:"url" yaml:"url"`
	Method         string            `json:"method" yaml:"method"`
	Headers        map[string]string `json:"headers" yaml:"headers"`
	TimeoutSeconds int               `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// S3Config uploads the HTML report. Key may contain {date} and {pipeline}.
type S3Config struct {
	Bucket         string `json:"bucket" yaml:"bucket"`
	Key            string `json:"key" yaml:"key"`
	AWSCredentials `json:",inline" yaml:",inline"`
}

// EnabledValue reports the enabled flag, defaulting to true.
func (c Config) EnabledValue() bool {
	return c.Enabled == nil || *c.Enabled
}

// Catalog holds the validated publisher entries of a file, in file order.
type Catalog struct {
	entries []Config
	idx     map[string]int
}

// LoadCatalog reads a YAML or JSON publishers file, expanding environment
// variables before decoding.
func LoadCatalog(path string) (*Catalog, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("publishers file path is empty")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read publishers file: %w", err)
	}

	file, err := decodeConfigFile([]byte(os.ExpandEnv(string(raw))), filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(file.Publishers) == 0 {
		return nil, errors.New("publishers file contains no publishers entries")
	}

	c := &Catalog{idx: make(map[string]int, len(file.Publishers))}
	for i, entry := range file.Publishers {
		entry = sanitizeConfig(entry)
		if _, dup := c.idx[entry.ID]; dup {
			return nil, fmt.Errorf("duplicate publisher id %q", entry.ID)
		}
		// disabled entries may reference env vars that are unset
		if entry.EnabledValue() || entry.ID == "" {
			if err := validateConfig(entry); err != nil {
				return nil, fmt.Errorf("publishers[%d]: %w", i, err)
			}
		}
		c.idx[entry.ID] = len(c.entries)
		c.entries = append(c.entries, entry)
	}
	return c, nil
}

func decodeConfigFile(data []byte, ext string) (configFile, error) {
	var file configFile
	switch strings.ToLower(strings.TrimSpace(ext)) {
	case ".json":
		if err := json.Unmarshal(data, &file); err != nil {
			return configFile{}, fmt.Errorf("decode json publishers: %w", err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, &file); err != nil {
			return configFile{}, fmt.Errorf("decode yaml publishers: %w", err)
		}
	default:
		return configFile{}, fmt.Errorf("publishers file extension %q not recognized (expected YAML or JSON)", ext)
	}
	return file, nil
}

func sanitizeCredentials(c AWSCredentials) AWSCredentials {
	c.Region = strings.TrimSpace(c.Region)
	c.AccessKeyID = strings.TrimSpace(c.AccessKeyID)
	c.SecretAccessKey = strings.TrimSpace(c.SecretAccessKey)
	return c
}

func sanitizeConfig(cfg Config) Config {
	cfg.ID = strings.TrimSpace(cfg.ID)
	cfg.Type = strings.ToLower(strings.TrimSpace(cfg.Type))

	if q := cfg.Queue; q != nil {
		qc := *q
		qc.Provider = strings.ToLower(strings.TrimSpace(qc.Provider))
		if qc.SQS != nil {
			s := *qc.SQS
			s.QueueURL = strings.TrimSpace(s.QueueURL)
			s.AWSCredentials = sanitizeCredentials(s.AWSCredentials)
			qc.SQS = &s
		}
		if qc.SNS != nil {
			s := *qc.SNS
			s.TopicARN = strings.TrimSpace(s.TopicARN)
			s.AWSCredentials = sanitizeCredentials(s.AWSCredentials)
			qc.SNS = &s
		}
		if qc.GCP != nil {
			g := *qc.GCP
			g.ProjectID = strings.TrimSpace(g.ProjectID)
			g.Topic = strings.TrimSpace(g.Topic)
			g.CredentialsFile = strings.TrimSpace(g.CredentialsFile)
			qc.GCP = &g
		}
		cfg.Queue = &qc
	}
	if h := cfg.HTTP; h != nil {
		c := *h
		c.URL = strings.TrimSpace(c.URL)
		c.Method = strings.ToUpper(strings.TrimSpace(c.Method))
		if c.Method == "" {
			c.Method = httpDefaultMethod
		}
		c.Headers = sanitizeHeaders(c.Headers)
		if c.TimeoutSeconds <= 0 {
			c.TimeoutSeconds = httpDefaultTimeoutSeconds
		}
		cfg.HTTP = &c
	}
	if s := cfg.S3; s != nil {
		c := *s
		c.Bucket = strings.TrimSpace(c.Bucket)
		c.Key = strings.TrimLeft(strings.TrimSpace(c.Key), "/")
		if c.Key == "" {
			c.Key = s3DefaultKey
		}
		c.AWSCredentials = sanitizeCredentials(c.AWSCredentials)
		cfg.S3 = &c
	}
	return cfg
}

func sanitizeHeaders(headers map[string]string) map[string]string {
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		key, val := strings.TrimSpace(k), strings.TrimSpace(v)
		if key == "" || val == "" {
			continue
		}
		out[key] = val
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func validateConfig(cfg Config) error {
	if cfg.ID == "" {
		return errors.New("id is required")
	}
	switch cfg.Type {
	case "":
		return fmt.Errorf("type is required for publisher %q", cfg.ID)
	case TypeQueue:
		return validateQueueConfig(cfg.ID, cfg.Queue)
	case TypeHTTP:
		if cfg.HTTP == nil || cfg.HTTP.URL == "" {
			return fmt.Errorf("http.url is required for publisher %q", cfg.ID)
		}
	case TypeS3:
		if cfg.S3 == nil || cfg.S3.Bucket == "" {
			return fmt.Errorf("s3.bucket is required for publisher %q", cfg.ID)
		}
		return validateCredentials(cfg.ID, "s3", cfg.S3.AWSCredentials)
	default:
		return fmt.Errorf("type %q not supported for publisher %q", cfg.Type, cfg.ID)
	}
	return nil
}

func validateQueueConfig(id string, q *QueueConfig) error {
	if q == nil {
		return fmt.Errorf("queue config required for publisher %q", id)
	}
	switch q.Provider {
	case QueueProviderAWSSQS:
		if q.SQS == nil || q.SQS.QueueURL == "" {
			return fmt.Errorf("sqs.queue_url is required for publisher %q", id)
		}
		return validateCredentials(id, "sqs", q.SQS.AWSCredentials)
	case QueueProviderAWSSNS:
		if q.SNS == nil || q.SNS.TopicARN == "" {
			return fmt.Errorf("sns.topic_arn is required for publisher %q", id)
		}
		return validateCredentials(id, "sns", q.SNS.AWSCredentials)
	case QueueProviderGCP:
		if q.GCP == nil || q.GCP.ProjectID == "" || q.GCP.Topic == "" {
			return fmt.Errorf("gcp.project_id and gcp.topic are required for publisher %q", id)
		}
	default:
		return fmt.Errorf("queue provider %q not supported for publisher %q", q.Provider, id)
	}
	return nil
}

// validateCredentials requires a region and either both static keys or none.
func validateCredentials(id, section string, c AWSCredentials) error {
	if c.Region == "" {
		return fmt.Errorf("%s.region is required for publisher %q", section, id)
	}
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return fmt.Errorf("%s.access_key_id and %s.secret_access_key must be set together for publisher %q", section, section, id)
	}
	return nil
}

// ByID returns the entry with the given id.
func (c *Catalog) ByID(id string) (Config, bool) {
	if c == nil {
		return Config{}, false
	}
	i, ok := c.idx[strings.TrimSpace(id)]
	if !ok {
		return Config{}, false
	}
	return c.entries[i], true
}

// All returns every entry in file order.
func (c *Catalog) All() []Config {
	if c == nil {
		return nil
	}
	return append([]Config(nil), c.entries...)
}

// Enabled returns the entries that are not disabled.
func (c *Catalog) Enabled() []Config {
	var out []Config
	for _, cfg := range c.All() {
		if cfg.EnabledValue() {
			out = append(out, cfg)
		}
	}
	return out
}
