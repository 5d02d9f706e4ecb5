package config

// EnvAliases maps environment variable names to configuration keys.
//
// The unprefixed names are those of earlier deployments. The prefixed ones
// cover keys containing an underscore.
func EnvAliases() map[string]string {
	return map[string]string{
		"TOKEN_SECRET": "token.secret",
		"ADMIN_CODE":   "admin.code",
		"SITE_URL":     "site.url",

		"LTRGATE_SERVER_HTTP_TLS_CERT_FILE":     "server.http.tls_cert_file",
		"LTRGATE_SERVER_HTTP_TLS_KEY_FILE":      "server.http.tls_key_file",
		"LTRGATE_SERVER_SHUTDOWN_TIMEOUT":       "server.shutdown_timeout",
		"LTRGATE_ADMIN_LOGIN_RATE_LIMIT":        "admin.login_rate_limit",
		"LTRGATE_SITE_PINNED_URL":               "site.pinned_url",
		"LTRGATE_SITE_ROOT_DIR":                 "site.root_dir",
		"LTRGATE_ISSUER_API_KEY":                "issuer.api_key",
		"LTRGATE_ISSUER_DEFAULT_MINUTES":        "issuer.default_minutes",
		"LTRGATE_ISSUER_PINNED_DEFAULT_MINUTES": "issuer.pinned_default_minutes",
		"LTRGATE_QUOTA_NEW_ACCESS_URL":          "quota.new_access_url",
	}
}
