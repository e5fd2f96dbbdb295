package pocket

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL is the root of the v3 API.
const DefaultBaseURL = "https://getpocket.com/v3/"

// Operation names one of the API actions the client supports.
type Operation string

const (
	OpRetrieve Operation = "retrieve"
	OpAdd      Operation = "add"
)

// ErrUnknownOperation is returned when an operation has no endpoint mapping.
var ErrUnknownOperation = errors.New("pocket: unknown operation")

// endpointPaths is the closed operation -> path table, relative to the base URL.
var endpointPaths = map[Operation]string{
	OpRetrieve: "get",
	OpAdd:      "add",
}

// Operations lists the supported operations in a stable order.
func Operations() []Operation {
	return []Operation{OpRetrieve, OpAdd}
}

// EndpointURL resolves op against baseURL. A base without a trailing slash is
// treated as a directory.
func EndpointURL(baseURL string, op Operation) (string, error) {
	path, ok := endpointPaths[op]
	if !ok {
		return "", fmt.Errorf("%w %q", ErrUnknownOperation, string(op))
	}

	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url %q: %w", baseURL, err)
	}
	return base.ResolveReference(&url.URL{Path: path}).String(), nil
}
