//go:build !unix

package process

import "os/exec"

// detach is a no-op where process groups are unavailable; cancellation
// falls back to killing the direct child only.
func detach(cmd *exec.Cmd) {}
