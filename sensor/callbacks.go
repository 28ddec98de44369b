package sensor

import "time"

// Phase names reported through ProgressCallback during enrollment.
const (
	PhaseWaiting  = "waiting"
	PhaseCaptured = "captured"
	PhaseLift     = "lift"
	PhaseMerging  = "merging"
	PhaseStoring  = "storing"
	PhaseComplete = "complete"
)

// Progress contains information about an enrollment in progress.
// Passed to ProgressCallback during Enroll.
type Progress struct {
	// Phase describes the current step:
	//   "waiting"  - Waiting for a finger for the next sample
	//   "captured" - A sample was captured and converted
	//   "lift"     - Waiting for the finger to be lifted
	//   "merging"  - Merging the collected samples
	//   "storing"  - Writing the template to its ID
	//   "complete" - Enrollment finished
	Phase string

	// Sample is the 1-based sample being collected
	Sample int

	// TotalSamples is the number of samples merged into a template
	TotalSamples int

	// TemplateID is the ID being enrolled
	TemplateID int

	// ElapsedTime is the time since Enroll was called
	ElapsedTime time.Duration
}

// ProgressCallback is called during enrollment to report progress.
// Implementations should return quickly; typical uses drive an LED or a
// prompt telling the user to place or lift their finger.
//
// Example:
//
//	s := sensor.New(device,
//	    sensor.WithProgressCallback(func(p sensor.Progress) {
//	        fmt.Printf("[%s] sample %d/%d\n", p.Phase, p.Sample, p.TotalSamples)
//	    }),
//	)
type ProgressCallback func(Progress)

// Logger is an optional logging interface that can be provided to the sensor.
// This allows integration with any logging framework.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Warn(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	s := sensor.New(device, sensor.WithLogger(&StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Warn logs a warning message with optional key-value pairs
	Warn(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}

// Clock is the time source used for settle delays, polling and timeouts.
// Tests substitute a virtual clock so that those delays cost nothing.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// StatusReader is implemented by transports that can read the single bus
// status byte. The module reports protocol.FlatMarker there while busy.
type StatusReader interface {
	ReadStatusByte() (byte, error)
}
