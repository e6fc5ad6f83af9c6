// Package transport converts between the Lambda Function URL invocation
// envelope and the normalized httpapi request/response pair.
package transport

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"svrmgr/internal/common/httpapi"
)

// Decode extracts a normalized request from the invocation event. A
// base64-flagged body is decoded to raw bytes, a textual body is taken as
// UTF-8.
func Decode(event events.LambdaFunctionURLRequest) (*httpapi.Request, error) {
	var body []byte
	if event.Body != "" {
		if event.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(event.Body)
			if err != nil {
				return nil, fmt.Errorf("decode base64 request body: %w", err)
			}
			body = decoded
		} else {
			body = []byte(event.Body)
		}
	}

	return &httpapi.Request{
		Method:          event.RequestContext.HTTP.Method,
		Path:            event.RawPath,
		QueryParameters: event.QueryStringParameters,
		Headers:         event.Headers,
		Body:            body,
	}, nil
}

// Encode embeds a response into the invocation result envelope. A 204
// response omits the body entirely; any other status without a body is a
// programming-contract violation. Bodies that aren't text or JSON are
// base64-encoded and flagged as such.
func Encode(resp *httpapi.Response) (events.LambdaFunctionURLResponse, error) {
	out := events.LambdaFunctionURLResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
	}

	if resp.StatusCode == 204 {
		return out, nil
	}

	if len(resp.Body) == 0 {
		return events.LambdaFunctionURLResponse{}, fmt.Errorf(
			"response status must be 204 (not %d) when body isn't provided", resp.StatusCode)
	}

	contentType := ""
	for k, v := range resp.Headers {
		if strings.EqualFold(k, "Content-Type") {
			contentType = v
			break
		}
	}

	binary := !(strings.HasPrefix(contentType, "text/") || strings.HasPrefix(contentType, "application/json"))
	out.IsBase64Encoded = binary

	if binary {
		out.Body = base64.StdEncoding.EncodeToString(resp.Body)
	} else {
		out.Body = string(resp.Body)
	}

	return out, nil
}
