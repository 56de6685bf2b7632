package casregistry

// Usage is a bitmask naming the kinds of binaries a backend may serve.
// A backend that only makes sense interactively (the grpc client, say)
// registers UsageCLI and stays invisible to primus-attestd.
type Usage uint8

const (
	// UsageCLI: short-lived operator tools (primus-zktls).
	UsageCLI Usage = 1 << iota
	// UsageDaemon: long-running servers (primus-attestd).
	UsageDaemon
)

func (u Usage) allows(want Usage) bool { return u&want != 0 }
