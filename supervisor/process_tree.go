package supervisor

import (
	"github.com/shirou/gopsutil/v3/process"
	"golang.org/x/sys/unix"
)

// processTree returns the process with the given pid followed by all of its descendants, parents
// before children. Processes that have already gone away are left out.
func processTree(pid int32) []*process.Process {
	root, err := process.NewProcess(pid)
	if err != nil {
		return nil
	}
	procs, err := process.Processes()
	if err != nil {
		return []*process.Process{root}
	}
	children := make(map[int32][]*process.Process)
	for _, p := range procs {
		ppid, err := p.Ppid()
		if err != nil {
			continue
		}
		children[ppid] = append(children[ppid], p)
	}

	tree := []*process.Process{root}
	for i := 0; i < len(tree); i++ {
		tree = append(tree, children[tree[i].Pid]...)
	}
	return tree
}

func terminate(tree []*process.Process) {
	for _, p := range tree {
		_ = p.SendSignal(unix.SIGTERM)
	}
}

func kill(tree []*process.Process) {
	// children first, so nothing gets reparented and missed
	for i := len(tree) - 1; i >= 0; i-- {
		_ = tree[i].SendSignal(unix.SIGKILL)
	}
}
