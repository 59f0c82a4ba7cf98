package system

import (
	"context"
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// Usage is the resource footprint of the running process
type Usage struct {
	CPUPercent float64
	RSSBytes   uint64
	Threads    int32
}

// ProcessUsage samples CPU and memory of the current process
func ProcessUsage(ctx context.Context) (Usage, error) {
	p, err := process.NewProcessWithContext(ctx, int32(os.Getpid()))
	if err != nil {
		return Usage{}, err
	}

	var u Usage
	if u.CPUPercent, err = p.CPUPercentWithContext(ctx); err != nil {
		return u, err
	}
	mem, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return u, err
	}
	u.RSSBytes = mem.RSS
	if u.Threads, err = p.NumThreadsWithContext(ctx); err != nil {
		return u, err
	}
	return u, nil
}
