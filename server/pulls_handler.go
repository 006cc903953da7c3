package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/leonardo-bento/githubprs/github"
	"github.com/leonardo-bento/githubprs/github/search"
)

// ListPulls serves GET /api/pulls?org=&authors=a,b&since=YYYY-MM-DD.
// The PAT comes from the Authorization header and falls back to the
// server's configured token.
func (s *Server) ListPulls(w http.ResponseWriter, r *http.Request) {
	const op = "server.ListPulls"
	log := s.log.WithFields(logrus.Fields{
		"op":         op,
		"request_id": middleware.GetReqID(r.Context()),
	})

	params, err := s.queryParameters(r)
	if err != nil {
		log.WithError(err).Info("Invalid request")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, Error(ErrCodeBadRequest, err.Error()))
		return
	}

	prs, err := s.fetcher.FetchOpenPullRequests(r.Context(), params)

	resp := PullsResponse{
		Organization: params.Organization,
		Authors:      params.Authors,
		Since:        params.Since.String(),
		PullRequests: prs,
	}

	if err != nil {
		var missing *github.MissingInputError
		var upstream *github.UpstreamError

		switch {
		case github.IsPartial(err):
			log.WithError(err).Warn("Returning partial results")
			resp.Warning = err.Error()
		case errors.As(err, &missing):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, ErrorResponse{Error: ErrorDetail{
				Code:    ErrCodeMissingInput,
				Message: err.Error(),
				Field:   missing.Field,
			}})
			return
		case errors.As(err, &upstream):
			log.WithError(err).WithField("upstream_status", upstream.StatusCode).Error("Upstream search failed")
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, ErrorResponse{Error: ErrorDetail{
				Code:           ErrCodeUpstream,
				Message:        err.Error(),
				UpstreamStatus: upstream.StatusCode,
			}})
			return
		default:
			log.WithError(err).Error("Search failed")
			render.Status(r, http.StatusBadGateway)
			render.JSON(w, r, Error(ErrCodeUpstream, "failed to fetch pull requests"))
			return
		}
	}

	if resp.PullRequests == nil {
		resp.PullRequests = []github.PullRequest{}
	}
	resp.Count = len(resp.PullRequests)

	render.Status(r, http.StatusOK)
	render.JSON(w, r, resp)
}

func (s *Server) queryParameters(r *http.Request) (github.QueryParameters, error) {
	q := r.URL.Query()

	params := github.QueryParameters{
		Organization: strings.TrimSpace(q.Get("org")),
		Authors:      github.SplitAuthors(q.Get("authors")),
		Token:        bearerToken(r),
	}

	if params.Organization == "" {
		params.Organization = s.cfg.DefaultOrganization
	}
	if !q.Has("authors") {
		params.Authors = s.cfg.DefaultAuthors
	}
	if params.Token == "" {
		params.Token = s.cfg.DefaultToken
	}

	since := strings.TrimSpace(q.Get("since"))
	if since == "" {
		params.Since = search.Yesterday(s.now())
	} else {
		d, err := search.ParseDate(since)
		if err != nil {
			return params, err
		}
		params.Since = d
	}

	return params, nil
}

// bearerToken extracts the credential from "Bearer x" or "token x".
func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	for _, prefix := range []string{"Bearer ", "bearer ", "token "} {
		if token, ok := strings.CutPrefix(h, prefix); ok {
			return strings.TrimSpace(token)
		}
	}
	return ""
}
