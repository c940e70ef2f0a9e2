// Package services talks to the learning platform API.
//
// # Collaborator Interface
//
// [Collaborator] groups the three concerns the views depend on: [Catalog] (search and
// trending), [SavedStore] (the saved list) and [ProgressStore] (per-item progress).
// Views and tasks accept the interface so tests can swap in fakes.
//
// # HTTP Implementation
//
// [APIService] implements [Collaborator] over the JSON API:
//
//	GET    /api/youtube/search?q=   → {"items": [Video]}
//	GET    /api/youtube/trending    → {"items": [Video]}
//	GET    /api/saved               → {"items": [Item]}
//	POST   /api/saved               ← Item
//	DELETE /api/saved/{id}
//	GET    /api/progress            → {"progress": {id: ProgressRecord}}
//	PUT    /api/progress/{id}       ← ProgressRecord
//
// Every request carries the session cookie through an [http.CookieJar]. When the server
// assigns a new session on first contact the jar picks it up, and [APIService.Session]
// exposes it so the CLI can persist it between runs.
//
// # Error Handling
//
// Non-2xx responses are returned as [shared.ErrAPIRequest] wrapped with the status code
// and the server's "detail" message when one is present.
package services
