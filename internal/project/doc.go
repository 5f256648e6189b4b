// Package project defines the project record tracked by perch.
//
// Project Representation:
//
// Each project represents one workspace with:
//   - Name (unique lookup key, first match wins)
//   - Repo (full URL, or owner/name shorthand expanded to an SSH remote)
//   - Dir (folder under the projects root, also the notes subdirectory)
//   - Tags (ordered, not deduplicated)
//   - Links (URLs opened with the system handler)
//
// Editing:
//
// An Edit overrides individual fields and applies a tag delta:
//
//	tags = (old ++ added) - removed
//
// A tag that is both added and removed in one edit ends up removed.
//
// Picker Format:
//
// PickerLine renders "<name> - #tag, #tag" for external fuzzy pickers and
// NameFromPicker recovers the name from such a line.
package project
