//go:build unix

package process

import (
	"os/exec"
	"syscall"
)

// detach starts the child in its own process group and makes cancellation
// kill the whole group, so grandchildren (yt-dlp spawning ffmpeg) die too.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
