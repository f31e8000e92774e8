package sensors

// StaticSensors returns fixed samples. Intended for tests.
type StaticSensors struct {
	MemorySample  MemorySample
	CPUSample     CPUSample
	DiskSample    DiskSample
	NetworkSample NetworkSample
	ProcessSample ProcessSample
}

// Memory returns the configured memory sample.
func (s *StaticSensors) Memory() MemorySample { return s.MemorySample }

// CPU returns the configured CPU sample.
func (s *StaticSensors) CPU() CPUSample { return s.CPUSample }

// Disk returns the configured disk sample.
func (s *StaticSensors) Disk() DiskSample { return s.DiskSample }

// Network returns the configured network sample.
func (s *StaticSensors) Network() NetworkSample { return s.NetworkSample }

// Process returns the configured process sample.
func (s *StaticSensors) Process() ProcessSample { return s.ProcessSample }

// Ensure StaticSensors implements Sensors
var _ Sensors = (*StaticSensors)(nil)
