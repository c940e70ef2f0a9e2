// Package views holds the state behind the two screens of the dashboard.
//
// [CatalogView] is the video search screen and [LibraryView] is the saved list grouped by
// source. Both keep the last server responses and project them into rows at read time,
// so saved flags and progress are never copied into the stored results.
//
// Reads that fail put the view into an error state (see [LoadError]) without clearing what
// was loaded before. Saves only show up after the server accepts them. Progress changes
// show up immediately and stay even when the write fails.
package views
