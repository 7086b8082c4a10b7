package deck

import "time"

// Recorder receives read and write measurements. pkg/metrics provides a
// Prometheus implementation.
type Recorder interface {
	KeywordDecoded(name string)
	IssueReported(kind, severity string)
	ReadFinished(d time.Duration, lines int)
	WriteFinished(d time.Duration, bytes int)
}

type nopRecorder struct{}

func (nopRecorder) KeywordDecoded(string)            {}
func (nopRecorder) IssueReported(string, string)     {}
func (nopRecorder) ReadFinished(time.Duration, int)  {}
func (nopRecorder) WriteFinished(time.Duration, int) {}
