package model

// Snapshot is the metrics payload pushed by the agent. The server stores
// the raw bytes and never decodes into this type; it exists for the agent
// and for clients rendering the stats response.
type Snapshot struct {
	Timestamp int64          `json:"timestamp"`
	Host      HostStats      `json:"host"`
	CPU       CPUStats       `json:"cpu"`
	Memory    MemoryStats    `json:"memory"`
	Disks     []DiskStats    `json:"disks"`
	Network   []NetworkStats `json:"network"`
}

type HostStats struct {
	Uptime       uint64          `json:"uptime"`
	Procs        uint64          `json:"procs"`
	Load1        float64         `json:"load_1"`
	Load5        float64         `json:"load_5"`
	Load15       float64         `json:"load_15"`
	Temperatures []SensorReading `json:"temperatures"`
}

type SensorReading struct {
	Key         string  `json:"key"`
	Temperature float64 `json:"temperature"`
}

type CPUStats struct {
	GlobalUsage float64   `json:"global_usage"`
	Cores       int       `json:"cores"`
	PerCore     []float64 `json:"per_core"`
}

type MemoryStats struct {
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"used_percent"`
	SwapTotal   uint64  `json:"swap_total"`
	SwapUsed    uint64  `json:"swap_used"`
}

type DiskStats struct {
	Path        string  `json:"path"`
	Device      string  `json:"device"`
	Fstype      string  `json:"fstype"`
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"used_percent"`
}

type NetworkStats struct {
	Name        string `json:"name"`
	BytesSent   uint64 `json:"bytes_sent"`
	BytesRecv   uint64 `json:"bytes_recv"`
	PacketsSent uint64 `json:"packets_sent"`
	PacketsRecv uint64 `json:"packets_recv"`
	Errors      uint64 `json:"errors"`
}
