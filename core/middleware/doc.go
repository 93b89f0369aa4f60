// Package middleware contains HTTP middleware for the Fiber application.
//
// It provides cross-cutting concerns that sit between the request and the handler.
//
// # Components
//
//   - auth: API key validation through the X-API-Key header. Swagger routes
//     are registered before it and stay public.
//   - rayid: tags every request with a ray id, stored in fiber locals for
//     logger.WithRayID and echoed in the X-Ray-ID response header.
//
// Register rayid first so every later log line carries the id.
package middleware
