package testutil

import (
	"net/http"

	id "veritas/pkg/domain"
	"veritas/pkg/requestcontext"
)

// WithViewer adds a viewer DID to the request context, as the auth
// middleware would for a request carrying a valid token. Invalid DIDs are
// ignored so the request stays anonymous.
func WithViewer(req *http.Request, viewer string) *http.Request {
	did, err := id.ParseDID(viewer)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithViewerDID(req.Context(), did))
}
