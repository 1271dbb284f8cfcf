package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
)

// Accepted spellings, first non-empty wins.
var (
	tokenEnvKeys    = []string{"NOTION_TOKEN", "NOTION_Token", "notion_token", "notionToken"}
	databaseEnvKeys = []string{"NOTION_DATABASE_ID", "NOTION_Database_Id", "NOTION_DATABASE", "notion_database_id"}
)

const (
	envTitleProperty    = "NOTION_TITLE_PROPERTY"
	envDateProperty     = "NOTION_DATE_PROPERTY"
	envTimeProperty     = "NOTION_TIME_PROPERTY"
	envLanguageProperty = "NOTION_LANGUAGE_PROPERTY"
	envPriceProperty    = "NOTION_PRICE_PROPERTY"
)

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set are left alone and a missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// ApplyEnv overlays credentials and property overrides from the
// environment onto cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v := firstEnv(lookup, tokenEnvKeys...); v != "" {
		cfg.Notion.Token = v
	}
	if v := firstEnv(lookup, databaseEnvKeys...); v != "" {
		cfg.Notion.DatabaseID = v
	}

	props := &cfg.Notion.Properties
	overlay := func(dst *string, key string) {
		if v := firstEnv(lookup, key); v != "" {
			*dst = v
		}
	}
	overlay(&props.Title, envTitleProperty)
	overlay(&props.Date, envDateProperty)
	overlay(&props.Time, envTimeProperty)
	overlay(&props.Language, envLanguageProperty)
	overlay(&props.Price, envPriceProperty)
}

func firstEnv(lookup func(string) (string, bool), keys ...string) string {
	for _, k := range keys {
		if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
