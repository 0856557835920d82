// Package envfile parses dotenv-style files used to feed extra environment
// variables to tool subprocesses.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/winappkit/winapp/internal/messages"
)

// Parse reads .env content into a key-value map. Blank lines and # comments
// are skipped; an optional `export ` prefix is tolerated; values may be
// single- or double-quoted.
func Parse(content string) (map[string]string, error) {
	env := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		key, value, ok, err := parseLine(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf(messages.EnvfileLineFmt, lineNo, err)
		}
		if !ok {
			continue
		}
		env[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return env, nil
}

// parseLine parses one line, reporting presence of a key/value pair.
func parseLine(line string) (string, string, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", "", false, nil
	}
	trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "export "))
	idx := strings.Index(trimmed, "=")
	if idx <= 0 {
		return "", "", false, errors.New(messages.EnvfileExpectedKeyValue)
	}
	key := strings.TrimSpace(trimmed[:idx])
	if key == "" {
		return "", "", false, errors.New(messages.EnvfileExpectedKeyValue)
	}
	value, err := parseValue(strings.TrimSpace(trimmed[idx+1:]))
	if err != nil {
		return "", "", false, err
	}
	return key, value, true, nil
}

// parseValue strips surrounding quotes and decodes escapes in double-quoted
// values. Unquoted values are returned verbatim.
func parseValue(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	quote := raw[0]
	if quote != '"' && quote != '\'' {
		return raw, nil
	}
	body, rest, err := splitQuoted(raw, quote)
	if err != nil {
		return "", err
	}
	trailing := strings.TrimSpace(rest)
	if trailing != "" && !strings.HasPrefix(trailing, "#") {
		return "", errors.New(messages.EnvfileTrailingContent)
	}
	if quote == '"' {
		body = unescape(body)
	}
	return body, nil
}

// splitQuoted returns the payload inside the quotes and whatever follows the
// closing quote. Escaped quotes only count inside double quotes.
func splitQuoted(raw string, quote byte) (string, string, error) {
	escaped := false
	for i := 1; i < len(raw); i++ {
		if escaped {
			escaped = false
			continue
		}
		switch raw[i] {
		case '\\':
			if quote == '"' {
				escaped = true
			}
		case quote:
			return raw[1:i], raw[i+1:], nil
		}
	}
	return "", "", errors.New(messages.EnvfileUnterminatedQuote)
}

// unescape decodes \\, \", \n, and \r inside a double-quoted payload.
func unescape(body string) string {
	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' && i+1 < len(body) {
			switch body[i+1] {
			case '\\', '"':
				b.WriteByte(body[i+1])
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			case 'r':
				b.WriteByte('\r')
				i++
				continue
			}
		}
		b.WriteByte(body[i])
	}
	return b.String()
}
