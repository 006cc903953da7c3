package server

import (
	"github.com/leonardo-bento/githubprs/github"
)

const (
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeMissingInput = "MISSING_INPUT"
	ErrCodeUpstream     = "UPSTREAM_ERROR"
)

type PullsResponse struct {
	Organization string               `json:"organization"`
	Authors      []string             `json:"authors"`
	Since        string               `json:"since"`
	Count        int                  `json:"count"`
	PullRequests []github.PullRequest `json:"pull_requests"`
	Warning      string               `json:"warning,omitempty"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	Field          string `json:"field,omitempty"`
	UpstreamStatus int    `json:"upstream_status,omitempty"`
}

func Error(code, msg string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: msg,
		},
	}
}
