//go:build !unix

package proc

import (
	"os"
	"os/exec"
	"syscall"
)

const (
	defaultSignal = syscall.SIGTERM
	killSignal    = syscall.SIGKILL
)

func setProcessGroup(*exec.Cmd) {}

// signalGroup can only kill on platforms without process groups.
func signalGroup(cmd *exec.Cmd, _ syscall.Signal) error {
	if cmd.Process == nil {
		return nil
	}
	return cmd.Process.Kill()
}

func exitCode(state *os.ProcessState) int { return state.ExitCode() }

func killed(*os.ProcessState) bool { return false }
