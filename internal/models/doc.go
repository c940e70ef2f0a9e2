// Package models defines the entities exchanged with the learning platform API.
//
//   - [Item] : a learnable unit (a video today, other sources later) as stored in the saved list
//   - [Video] : a search/trending result from the video platform
//   - [ProgressRecord] : per-item watch progress keyed by item id
//   - [Status] : not_started, in_progress or done
//
// Decoding is tolerant of what the API actually sends: years may be numbers or strings,
// percents may be floats, and timestamps may lack a zone.
package models
