package agent

import (
	"context"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/sensors"

	"github.com/doodlesbykumbi/hostwatch/pkg/model"
)

// CollectFunc produces one snapshot.
type CollectFunc func(ctx context.Context) (*model.Snapshot, error)

// Collect reads the local host. Individual probes that fail leave their
// section zeroed; virtual machines commonly have no temperature sensors
// and containers often hide swap.
func Collect(ctx context.Context) (*model.Snapshot, error) {
	snap := &model.Snapshot{
		Timestamp: time.Now().Unix(),
		Disks:     []model.DiskStats{},
		Network:   []model.NetworkStats{},
	}

	if info, err := host.InfoWithContext(ctx); err == nil {
		snap.Host.Uptime = info.Uptime
		snap.Host.Procs = info.Procs
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		snap.Host.Load1 = avg.Load1
		snap.Host.Load5 = avg.Load5
		snap.Host.Load15 = avg.Load15
	}
	temps, _ := sensors.TemperaturesWithContext(ctx)
	snap.Host.Temperatures = make([]model.SensorReading, 0, len(temps))
	for _, t := range temps {
		snap.Host.Temperatures = append(snap.Host.Temperatures, model.SensorReading{Key: t.SensorKey, Temperature: t.Temperature})
	}

	if global, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(global) > 0 {
		snap.CPU.GlobalUsage = global[0]
	}
	if perCore, err := cpu.PercentWithContext(ctx, 0, true); err == nil {
		snap.CPU.PerCore = perCore
		snap.CPU.Cores = len(perCore)
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		snap.Memory.Total = vm.Total
		snap.Memory.Used = vm.Used
		snap.Memory.UsedPercent = vm.UsedPercent
	}
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		snap.Memory.SwapTotal = swap.Total
		snap.Memory.SwapUsed = swap.Used
	}

	partitions, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, p := range partitions {
		if !keepPartition(p) {
			continue
		}
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil {
			continue
		}
		snap.Disks = append(snap.Disks, model.DiskStats{
			Path:        p.Mountpoint,
			Device:      p.Device,
			Fstype:      p.Fstype,
			Total:       usage.Total,
			Used:        usage.Used,
			UsedPercent: usage.UsedPercent,
		})
	}

	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, c := range counters {
		if !keepInterface(c) {
			continue
		}
		snap.Network = append(snap.Network, model.NetworkStats{
			Name:        c.Name,
			BytesSent:   c.BytesSent,
			BytesRecv:   c.BytesRecv,
			PacketsSent: c.PacketsSent,
			PacketsRecv: c.PacketsRecv,
			Errors:      c.Errin + c.Errout,
		})
	}

	return snap, nil
}

// keepPartition drops loop devices, snap mounts and squashfs images.
func keepPartition(p disk.PartitionStat) bool {
	return !strings.HasPrefix(p.Device, "/dev/loop") &&
		!strings.Contains(p.Mountpoint, "/snap") &&
		!strings.Contains(p.Fstype, "squashfs")
}

// keepInterface drops interfaces that never carried traffic.
func keepInterface(c net.IOCountersStat) bool {
	return c.BytesSent != 0 || c.BytesRecv != 0
}
