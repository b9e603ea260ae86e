package publish

import (
	"fmt"
	"strings"
)

// OutcomeKind is the class of a single upload result.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeAuthenticationFailed
	OutcomeAlreadyExists
	OutcomeTransportFailed
	OutcomeServerError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeAuthenticationFailed:
		return "authentication failed"
	case OutcomeAlreadyExists:
		return "already exists"
	case OutcomeTransportFailed:
		return "transport failed"
	case OutcomeServerError:
		return "server error"
	}
	return fmt.Sprintf("OutcomeKind(%d)", int(k))
}

// Outcome is the classified result of uploading one artifact.
type Outcome struct {
	Kind       OutcomeKind
	StatusCode int
	// Body is the server's response text for AlreadyExists and ServerError.
	Body string
	// Cause is set for TransportFailed.
	Cause error
}

// classificationRule maps a status code, and optionally a body substring,
// to an outcome. Rules are tried in order; an empty contains matches any body.
type classificationRule struct {
	status   int
	contains string
	kind     OutcomeKind
	// server names the index implementation the rule exists for.
	server string
}

// There is no machine readable "already uploaded" signal shared by index
// implementations, so each one is recognised by status and wording.
var classificationRules = []classificationRule{
	{status: 403, contains: "overwrite artifact", kind: OutcomeAlreadyExists, server: "Artifactory"},
	{status: 403, kind: OutcomeAuthenticationFailed, server: "any"},
	{status: 409, kind: OutcomeAlreadyExists, server: "pypiserver"},
	{status: 400, contains: "already exists", kind: OutcomeAlreadyExists, server: "PyPI / TestPyPI"},
	{status: 400, contains: "updating asset", kind: OutcomeAlreadyExists, server: "Nexus Repository OSS"},
	{status: 400, contains: "already been taken", kind: OutcomeAlreadyExists, server: "GitLab"},
}

// Classify maps an HTTP status and response body to an Outcome.
// Substring checks are case-sensitive.
func Classify(status int, body string) Outcome {
	if status >= 200 && status < 300 {
		return Outcome{Kind: OutcomeSuccess, StatusCode: status}
	}
	for _, rule := range classificationRules {
		if rule.status != status {
			continue
		}
		if rule.contains != "" && !strings.Contains(body, rule.contains) {
			continue
		}
		return Outcome{Kind: rule.kind, StatusCode: status, Body: body}
	}
	return Outcome{Kind: OutcomeServerError, StatusCode: status, Body: body}
}

// TransportFailure is the outcome of a request that never produced a response.
func TransportFailure(cause error) Outcome {
	return Outcome{Kind: OutcomeTransportFailed, Cause: cause}
}

// Err converts a failed outcome into an error; it returns nil for success.
func (o Outcome) Err() error {
	switch o.Kind {
	case OutcomeSuccess:
		return nil
	case OutcomeAuthenticationFailed:
		return catalog.WrapWithContext(ErrAuthentication, nil, "Username and/or password are wrong",
			map[string]any{"status": o.StatusCode})
	case OutcomeAlreadyExists:
		return catalog.WrapWithContext(ErrAlreadyExists, nil, "File already exists: "+o.Body,
			map[string]any{"status": o.StatusCode})
	case OutcomeTransportFailed:
		return catalog.Wrap(ErrTransport, o.Cause, fmt.Sprintf("Http error: %v", o.Cause))
	}
	return catalog.WrapWithContext(ErrServerResponse, nil,
		fmt.Sprintf("Failed to upload the wheel with status %d: %s", o.StatusCode, o.Body),
		map[string]any{"status": o.StatusCode})
}
