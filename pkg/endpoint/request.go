package endpoint

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const MaxRequestSize = 1 << 20 // 1MB limit for JSON bodies.

func ParseRequestBody[T any](r *http.Request) (T, func(), error) {
	var err error
	var request T
	var data []byte

	closer := func() {
		if issue := r.Body.Close(); issue != nil {
			slog.Error("ParseRequestBody: " + issue.Error())
		}
	}

	limitedReader := io.LimitReader(r.Body, MaxRequestSize)
	if data, err = io.ReadAll(limitedReader); err != nil {
		return request, closer, fmt.Errorf("failed to read the given request body: %w", err)
	}

	if len(data) == 0 {
		return request, closer, nil
	}

	if err = json.Unmarshal(data, &request); err != nil {
		return request, closer, fmt.Errorf("failed to unmarshal the given request body: %w", err)
	}

	return request, closer, nil
}
