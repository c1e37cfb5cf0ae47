package node

// MetricsRecorder receives a pass/fail signal from the fabric's hot
// paths (RawOutput.Send, RawQueryable.OnDemand's reply) without the
// node package depending on whatever metrics backend records them.
// A *runtime.Metrics satisfies this interface structurally.
type MetricsRecorder interface {
	RecordSend(ok bool)
}
