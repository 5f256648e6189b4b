// Package process launches the external programs perch drives: git,
// tmux, the terminal emulator and the URL opener.
//
// Three launch modes exist:
//   - Run waits for the program and captures its standard error, so a
//     failure can be reported with the program's own diagnostics.
//   - Start spawns the program detached and returns immediately.
//   - Foreground hands the terminal to the program. By default the
//     current process image is replaced (exec), so control never returns
//     on success. With SpawnForeground the program is started with the
//     caller's stdio and waited for instead.
package process
