// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI hosts the two dashboard screens as tabs:
//  1. [CatalogTab] : search or browse trending videos, save them and track progress
//  2. [LibraryTab] : the saved list grouped by source with progress bars
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern. Network calls run
// inside commands against the views package, and the lists are rebuilt from the views' row
// projections when the resulting message arrives.
//
// Keyboard navigation uses vim-style bindings (j/k) plus single-key actions, with contextual
// help displayed via charmbracelet/bubbles/help.
package ui
