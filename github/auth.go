package github

const (
	headerAuthorization = "Authorization"
	headerAccept        = "Accept"

	authPrefixBearer = "Bearer "
	acceptGitHubV3   = "application/vnd.github.v3+json"
)

// BuildAuthHeaders returns the headers every search request carries: the
// bearer credential and the versioned JSON media type. The credential is
// not inspected; a bad token only shows up as an HTTP failure.
func BuildAuthHeaders(credential string) map[string]string {
	return map[string]string{
		headerAuthorization: authPrefixBearer + credential,
		headerAccept:        acceptGitHubV3,
	}
}
