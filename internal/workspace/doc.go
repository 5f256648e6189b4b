// Package workspace turns a project name into a live, attached tmux
// session.
//
// Activation runs a fixed sequence in which every step is skipped when
// its result already exists:
//
//  1. resolve the project in the registry
//  2. compute <projects-root>/<dir>
//  3. clone the repository if that directory is missing
//  4. ensure <data-dir>/<dir>/notes.md exists
//  5. ensure the session "<prefix><name>" exists, editor on the notes
//     in the main pane and a short shell pane below it
//  6. attach to the session in the foreground
//
// Steps 1 to 3 failing aborts activation. Nothing is rolled back: a
// completed clone stays in place if a later step fails.
package workspace
