package charsetconv

// Stage names a step of charset resolution.
type Stage string

const (
	// StageHeader reads the charset parameter of the declared Content-Type.
	StageHeader Stage = "header"

	// StageMeta scans <meta> declarations at the head of the body.
	StageMeta Stage = "meta"

	// StageSniff asks the Sniffer for a statistical guess.
	StageSniff Stage = "sniff"
)

// stageOrder is the fixed resolution order.
var stageOrder = []Stage{StageHeader, StageMeta, StageSniff}

// String returns the stage name.
func (s Stage) String() string {
	return string(s)
}
