// Package middleware provides HTTP middleware for the scoring server.
//
// Every middleware has the shape func(http.Handler) http.Handler and can be
// composed with Chain:
//
//	handler := middleware.Chain(mux,
//		middleware.PanicRecovery(logger),
//		middleware.RequestID(),
//		middleware.Logging(logger),
//		middleware.Metrics(registry),
//		middleware.SecurityHeaders(),
//		middleware.BodySizeLimit(1<<20),
//	)
//
// The first middleware listed is the outermost.
package middleware
