package reactive

// DevMode enables development-time panics for misuse that production
// builds only log: writes to read-only computeds, invalid watch
// sources, and flush budget trips.
//
// Set this at application startup:
//
//	func main() {
//	    reactive.DevMode = os.Getenv("MONKEYS_DEV") == "1"
//	    // ...
//	}
var DevMode = false

// MaxFlushRuns bounds the number of job replays a single flush cycle
// may perform before the engine assumes a self-perpetuating update loop
// and gives up. Zero disables the bound.
var MaxFlushRuns = 1000

// DebugConfig controls debug logging for development. All logging goes
// through log/slog at debug level.
type DebugConfig struct {
	// LogComputationRuns logs each computation run with its ID.
	LogComputationRuns bool

	// LogTriggers logs each trigger with key and listener count.
	LogTriggers bool

	// LogFlush logs flush cycles with their job counts.
	LogFlush bool
}

// Debug is the global debug configuration.
// Modify at application startup to enable debug logging.
var Debug = DebugConfig{}
