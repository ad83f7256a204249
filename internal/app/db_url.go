package app

import (
	"net/url"
	"strings"
)

// normalizeDBURL tags the DSN with application_name so sessions are
// identifiable in pg_stat_activity. An explicit application_name wins.
func normalizeDBURL(raw, applicationName string) string {
	applicationName = strings.TrimSpace(applicationName)
	if applicationName == "" || strings.TrimSpace(raw) == "" {
		return raw
	}

	if parsed, ok := parseURLDSN(raw); ok {
		query := parsed.Query()
		if query.Get("application_name") != "" {
			return raw
		}
		query.Set("application_name", applicationName)
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}

	if _, ok := keyValueDSN(raw)["application_name"]; ok {
		return raw
	}
	if strings.ContainsAny(applicationName, ` '\`) {
		applicationName = "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(applicationName) + "'"
	}
	return strings.TrimSpace(raw) + " application_name=" + applicationName
}

func dbNameFromURL(raw string) string {
	if parsed, ok := parseURLDSN(raw); ok {
		return strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/"))
	}
	return keyValueDSN(raw)["dbname"]
}

func parseURLDSN(raw string) (*url.URL, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" {
		return nil, false
	}
	return parsed, true
}

// keyValueDSN reads the simple key=value form lib/pq accepts. Quoted values
// containing spaces are not split back together.
func keyValueDSN(raw string) map[string]string {
	out := make(map[string]string)
	for _, token := range strings.Fields(raw) {
		key, value, ok := strings.Cut(token, "=")
		if !ok || key == "" {
			continue
		}
		out[key] = strings.Trim(value, `"'`)
	}
	return out
}
