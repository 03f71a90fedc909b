package config

import "strings"

type LookupFunc func(string) (string, bool)

// CI describes the pipeline the dashboard is rendered in.
type CI struct {
	Provider   string
	Repository string
	RunID      string
	Branch     string
}

func DetectCI(lookup LookupFunc) CI {
	switch {
	case isTrueEnv(lookup, "GITHUB_ACTIONS"):
		return CI{
			Provider:   "github",
			Repository: firstEnv(lookup, "GITHUB_REPOSITORY"),
			RunID:      firstEnv(lookup, "GITHUB_RUN_ID"),
			Branch:     githubBranchName(lookup),
		}
	case isTrueEnv(lookup, "GITLAB_CI"):
		return CI{
			Provider:   "gitlab",
			Repository: firstEnv(lookup, "CI_PROJECT_PATH"),
			RunID:      firstEnv(lookup, "CI_PIPELINE_ID"),
			Branch:     firstEnv(lookup, "CI_MERGE_REQUEST_SOURCE_BRANCH_NAME", "CI_COMMIT_BRANCH"),
		}
	}
	return CI{Provider: "generic", Branch: firstEnv(lookup, "GIT_BRANCH", "BRANCH_NAME")}
}

func githubBranchName(lookup LookupFunc) string {
	if branch := firstEnv(lookup, "GITHUB_HEAD_REF", "GITHUB_REF_NAME"); branch != "" {
		return branch
	}
	return strings.TrimPrefix(firstEnv(lookup, "GITHUB_REF"), "refs/heads/")
}

func applyEnvOverrides(cfg *Config, lookup LookupFunc) {
	if v := firstEnv(lookup, "CURATION_DASHBOARD_SOURCE"); v != "" {
		cfg.Source = v
	}
	if v := firstEnv(lookup, "CURATION_DASHBOARD_TIMEZONE"); v != "" {
		cfg.Timezone = v
	}
	if v := firstEnv(lookup, "CURATION_DASHBOARD_LOG_MODE"); v != "" {
		cfg.Log.Mode = v
	}
	if v := firstEnv(lookup, "MINIO_ENDPOINT"); v != "" {
		cfg.Publish.Endpoint = v
	}
	if v := firstEnv(lookup, "MINIO_ACCESS_KEY"); v != "" {
		cfg.Publish.AccessKey = v
	}
	if v := firstEnv(lookup, "MINIO_SECRET_KEY"); v != "" {
		cfg.Publish.SecretKey = v
	}
}

func isTrueEnv(lookup LookupFunc, key string) bool {
	v, ok := lookup(key)
	if !ok {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

func firstEnv(lookup LookupFunc, keys ...string) string {
	for _, key := range keys {
		if v, ok := lookup(key); ok {
			if strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v)
			}
		}
	}
	return ""
}
