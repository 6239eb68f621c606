// redact маскирует секреты перед записью в лог.
package redact

import (
	"net/url"
	"strings"
)

const masked = "***"

// URL скрывает пароль в строке подключения (postgres://, mongodb://, redis://).
// Нераспознанная строка целиком заменяется на "***".
func URL(raw string) string {
	if raw == "" {
		return ""
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return masked
	}

	if u.User != nil {
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), masked)
		}
	}

	q := u.Query()
	for k := range q {
		if isSecretParam(k) {
			q.Set(k, masked)
		}
	}
	u.RawQuery = q.Encode()

	out := u.String()
	// url.String экранирует "*" в userinfo.
	return strings.ReplaceAll(out, "%2A%2A%2A", masked)
}

// Secret — литерал для ключей доступа.
func Secret() string { return "[REDACTED_SECRET]" }

func isSecretParam(k string) bool {
	switch strings.ToLower(k) {
	case "password", "pass", "secret", "token", "sslkey":
		return true
	}
	return false
}
