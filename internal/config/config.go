package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Environment string `envconfig:"ENVIRONMENT" default:"local"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	DatabaseURL string `envconfig:"DATABASE_URL" default:""`
	DBMinConns  int32  `envconfig:"STITCH_DB_MIN_CONNS" default:"1"`
	DBMaxConns  int32  `envconfig:"STITCH_DB_MAX_CONNS" default:"8"`

	HTTPAddr           string `envconfig:"HTTP_ADDR" default:":8080"`
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS" default:""`

	// Stub dedup is off until both competing domains are named; the priority
	// list defaults to the pair the pass was introduced for.
	DedupeDomainPriorities string `envconfig:"DEDUPE_DOMAIN_PRIORITIES" default:"www.healthdirect.gov.au=0,www.pregnancybirthbaby.org.au=1"`
	DedupeRequiredDomains  string `envconfig:"DEDUPE_REQUIRED_DOMAINS" default:""`
	DedupeExcludePrefix    string `envconfig:"DEDUPE_EXCLUDE_PREFIX" default:""`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.DBMinConns < 0 {
		return fmt.Errorf("STITCH_DB_MIN_CONNS must be >= 0")
	}
	if c.DBMaxConns < 1 {
		return fmt.Errorf("STITCH_DB_MAX_CONNS must be >= 1")
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("STITCH_DB_MIN_CONNS (%d) cannot exceed STITCH_DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if _, err := c.DomainPriorities(); err != nil {
		return err
	}
	if _, err := c.RequiredDomainPair(); err != nil {
		return err
	}
	return nil
}

// DomainPriorities parses DEDUPE_DOMAIN_PRIORITIES, a comma-separated list of
// host=rank pairs.
func (c *Config) DomainPriorities() (map[string]int, error) {
	priorities := make(map[string]int)
	for _, part := range strings.Split(c.DedupeDomainPriorities, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		host, rank, found := strings.Cut(part, "=")
		if !found {
			return nil, fmt.Errorf("DEDUPE_DOMAIN_PRIORITIES entry %q is not host=rank", part)
		}
		host = strings.ToLower(strings.TrimSpace(host))
		if host == "" {
			return nil, fmt.Errorf("DEDUPE_DOMAIN_PRIORITIES entry %q has an empty host", part)
		}
		n, err := strconv.Atoi(strings.TrimSpace(rank))
		if err != nil {
			return nil, fmt.Errorf("DEDUPE_DOMAIN_PRIORITIES rank for %q: %w", host, err)
		}
		priorities[host] = n
	}
	return priorities, nil
}

// RequiredDomainPair parses DEDUPE_REQUIRED_DOMAINS. Empty means the dedup
// pass stays disabled; anything else must name exactly two hosts.
func (c *Config) RequiredDomainPair() ([2]string, error) {
	var pair [2]string
	raw := strings.TrimSpace(c.DedupeRequiredDomains)
	if raw == "" {
		return pair, nil
	}
	parts := strings.Split(raw, ",")
	hosts := make([]string, 0, len(parts))
	for _, part := range parts {
		host := strings.ToLower(strings.TrimSpace(part))
		if host != "" {
			hosts = append(hosts, host)
		}
	}
	if len(hosts) != 2 {
		return pair, fmt.Errorf("DEDUPE_REQUIRED_DOMAINS must name exactly two hosts, got %d", len(hosts))
	}
	pair[0], pair[1] = hosts[0], hosts[1]
	return pair, nil
}

func (c *Config) CORSAllowedOriginsList() []string {
	if c == nil {
		return nil
	}

	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin == "" {
			continue
		}
		if _, exists := seen[origin]; exists {
			continue
		}
		seen[origin] = struct{}{}
		origins = append(origins, origin)
	}
	return origins
}
