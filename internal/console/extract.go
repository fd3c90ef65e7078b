package console

import (
	"net/url"
	"strings"
)

func extractCode(input string) string {
	if !strings.Contains(input, "code=") {
		return input
	}

	u, err := url.Parse(input)
	if err != nil {
		return input
	}
	if code := u.Query().Get("code"); code != "" {
		return code
	}
	return input
}
