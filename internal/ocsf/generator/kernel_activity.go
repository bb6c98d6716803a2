package generator

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/mranv/ocsf-opensearch/internal/ocsf"
)

// KernelActivity generates OCSF Kernel Activity (1003) events.
type KernelActivity struct {
	pools *AttributePools

	operations    []namedID
	modules       []string
	syscalls      []string
	parameters    []string
	architectures []string
	moduleParams  []string
}

// NewKernelActivity creates a Kernel Activity generator.
func NewKernelActivity(pools *AttributePools) *KernelActivity {
	return &KernelActivity{
		pools: pools,
		operations: []namedID{
			{"module_load", 1}, {"module_unload", 2}, {"syscall", 3},
			{"parameter_change", 4}, {"capability_change", 5},
		},
		modules: []string{
			"tcp_cubic", "ext4", "nvidia", "bluetooth",
			"usb_storage", "iptable_filter",
		},
		syscalls: []string{
			"read", "write", "open", "close",
			"fork", "exec", "socket", "connect",
		},
		parameters: []string{
			"vm.swappiness", "net.ipv4.tcp_keepalive_time",
			"kernel.shmmax", "net.core.wmem_max",
		},
		architectures: []string{"x86_64", "aarch64", "amd64"},
		moduleParams:  []string{"", "debug=1", "async=true"},
	}
}

func (g *KernelActivity) Class() ocsf.Class { return ocsf.KernelActivity }

type kernelModule struct {
	Name       string `json:"name"`
	Parameters string `json:"parameters"`
}

type kernelSyscall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type kernelParameter struct {
	Name     string `json:"name"`
	OldValue string `json:"old_value"`
	NewValue string `json:"new_value"`
}

type kernelObject struct {
	Version      string           `json:"version"`
	Architecture string           `json:"architecture"`
	Operation    string           `json:"operation"`
	Module       *kernelModule    `json:"module,omitempty"`
	Syscall      *kernelSyscall   `json:"syscall,omitempty"`
	Parameter    *kernelParameter `json:"parameter,omitempty"`
}

type kernelActivityEvent struct {
	ocsf.BaseEvent

	Kernel      kernelObject  `json:"kernel"`
	Process     ocsf.Process  `json:"process"`
	SrcEndpoint ocsf.Endpoint `json:"src_endpoint"`
}

func (g *KernelActivity) Generate(rng *rand.Rand) any {
	ts := g.pools.pastTime(rng)
	op := pick(rng, g.operations)

	ev := &kernelActivityEvent{
		BaseEvent: ocsf.BaseEvent{
			ClassUID:     ocsf.KernelActivity.UID,
			ClassName:    ocsf.KernelActivity.Name,
			Time:         ocsf.Timestamp(ts),
			ActivityID:   op.id,
			ActivityName: strings.ToUpper(op.name),
			Status:       "Success",
			StatusID:     1,
			Severity:     "Info",
			SeverityID:   1,
			Metadata:     ocsf.NewMetadata("Kernel Monitor", ocsf.Timestamp(ts)),
		},
		Kernel: kernelObject{
			Version:      fmt.Sprintf("%d.%d.%d", 4+rng.IntN(3), rng.IntN(20), rng.IntN(100)),
			Architecture: pick(rng, g.architectures),
			Operation:    op.name,
		},
		Process: ocsf.Process{
			PID:  1 + rng.IntN(65535),
			Name: "kernel_task",
			Path: "/sbin/kernel_task",
		},
		SrcEndpoint: ocsf.Endpoint{
			Hostname: pick(rng, g.pools.Hostnames),
			UID:      newUID(rng),
		},
	}

	switch op.name {
	case "module_load", "module_unload":
		ev.Kernel.Module = &kernelModule{
			Name:       pick(rng, g.modules),
			Parameters: pick(rng, g.moduleParams),
		}
	case "syscall":
		ev.Kernel.Syscall = &kernelSyscall{
			Name:      pick(rng, g.syscalls),
			Arguments: fmt.Sprintf("fd=%d,size=%d", rng.IntN(1001), 1+rng.IntN(4096)),
		}
	case "parameter_change":
		ev.Kernel.Parameter = &kernelParameter{
			Name:     pick(rng, g.parameters),
			OldValue: fmt.Sprintf("%d", 100+rng.IntN(901)),
			NewValue: fmt.Sprintf("%d", 100+rng.IntN(901)),
		}
	}

	return ev
}
