package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/codefix/pkg/fsutil"
	"github.com/yaklabco/codefix/pkg/report"
	"github.com/yaklabco/codefix/pkg/runner"
)

// Exit codes for codefix.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFixFailures indicates some files could not be fixed.
	ExitFixFailures = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitDataError indicates a malformed diagnostic report.
	ExitDataError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 78
)

// Sentinel errors mapped to exit codes.
var (
	// ErrFixFailures is returned when a run left some files unfixed.
	ErrFixFailures = errors.New("some files could not be fixed")

	// ErrUsage marks bad flag combinations.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration problems.
	ErrConfig = errors.New("invalid configuration")
)

// ExitCodeFromResult determines the exit code of a fix-all run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasErrors() {
		return ExitFixFailures
	}
	return ExitSuccess
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrFixFailures):
		return ExitFixFailures
	case errors.Is(err, ErrUsage),
		errors.Is(err, runner.ErrUnknownGroup),
		errors.Is(err, runner.ErrPosition),
		errors.Is(err, runner.ErrNoSource):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig):
		return ExitConfigError
	case errors.Is(err, report.ErrUnknownFormat),
		errors.Is(err, report.ErrUnsupportedVersion),
		errors.Is(err, report.ErrInvalidPosition),
		errors.Is(err, report.ErrMissingFile):
		return ExitDataError
	case errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
