package cli

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vk/waitgate/internal/app"
	"github.com/vk/waitgate/internal/probe"
)

// Exit codes reserved by the gate. Code 0 is only ever produced by the
// exec'd command itself; once the handoff succeeds the gate has no exit
// code of its own.
const (
	// CodeUnreachable: the endpoint never became reachable before the
	// deadline, or a termination signal aborted the wait.
	CodeUnreachable = 1
	// CodeExecFailed: every endpoint was reachable but the command could
	// not be started.
	CodeExecFailed = 2
	// CodeUsage: the invocation itself was invalid.
	CodeUsage = 3
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usageHeader = `
waitgate - block a command until its TCP dependencies are reachable.

Usage:
  waitgate [options] <host> <port> -- <command> [args...]
  waitgate [options] -waitfile <path> -- <command> [args...]

Arguments:
  host, port
    The TCP endpoint that must accept a connection before the command runs.
  command
    The program to hand the process over to once every endpoint is
    reachable. Taken verbatim as an argv vector; no shell is involved.

Exit codes:
  1  an endpoint never became reachable before the deadline
  2  the command could not be started
  3  usage or configuration error
  Otherwise the gate's exit code is the command's own.

Options:
`

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("waitgate", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, usageHeader)
		flagSet.PrintDefaults()
	}

	timeoutFlag := flagSet.Duration("t", 0, "Overall deadline for the wait. 0 waits forever.")
	intervalFlag := flagSet.Duration("i", probe.DefaultInterval, "Delay between connection attempts.")
	connectTimeoutFlag := flagSet.Duration("connect-timeout", probe.DefaultConnectTimeout, "Timeout for a single connection attempt.")
	waitfileFlag := flagSet.String("waitfile", "", "Path to an HCL wait file, or a directory of .hcl files.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: CodeUsage, Message: err.Error()}
	}

	if len(args) == 0 {
		flagSet.Usage()
		return nil, true, nil
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: CodeUsage, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: CodeUsage, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	endpoints, command, err := splitOperands(flagSet.Args(), *waitfileFlag != "")
	if err != nil {
		return nil, false, &ExitError{Code: CodeUsage, Message: err.Error()}
	}

	setFlags := map[string]bool{}
	flagSet.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	config, err := app.NewConfig(app.Config{
		Endpoints:         endpoints,
		Command:           command,
		WaitfilePath:      *waitfileFlag,
		Timeout:           *timeoutFlag,
		Interval:          *intervalFlag,
		ConnectTimeout:    *connectTimeoutFlag,
		TimeoutSet:        setFlags["t"],
		IntervalSet:       setFlags["i"],
		ConnectTimeoutSet: setFlags["connect-timeout"],
		LogFormat:         logFormat,
		LogLevel:          logLevel,
	})
	if err != nil {
		return nil, false, &ExitError{Code: CodeUsage, Message: err.Error()}
	}

	return config, false, nil
}

// splitOperands separates the non-flag arguments into the optional host/port
// pair and the command argv. Everything after "--" is the command, taken
// verbatim; without "--" the command starts right after the positionals.
func splitOperands(rest []string, haveWaitfile bool) ([]probe.Endpoint, []string, error) {
	positionals := rest
	command := []string(nil)
	for i, arg := range rest {
		if arg == "--" {
			positionals = rest[:i]
			command = rest[i+1:]
			break
		}
	}

	if haveWaitfile {
		if command == nil {
			// No "--": the whole remainder is the command.
			command = positionals
			positionals = nil
		}
		if len(positionals) != 0 {
			return nil, nil, fmt.Errorf("host/port arguments cannot be combined with -waitfile")
		}
		if len(command) == 0 {
			return nil, nil, fmt.Errorf("a command to run after the wait is required")
		}
		return nil, command, nil
	}

	if command == nil {
		if len(positionals) < 2 {
			return nil, nil, fmt.Errorf("host and port arguments are required")
		}
		command = positionals[2:]
		positionals = positionals[:2]
	}
	if len(positionals) != 2 {
		return nil, nil, fmt.Errorf("expected exactly <host> <port> before '--', got %d arguments", len(positionals))
	}
	if len(command) == 0 {
		return nil, nil, fmt.Errorf("a command to run after the wait is required")
	}

	port, err := strconv.Atoi(positionals[1])
	if err != nil {
		return nil, nil, fmt.Errorf("port %q is not a number", positionals[1])
	}

	ep := probe.Endpoint{Host: positionals[0], Port: port}
	if err := ep.Validate(); err != nil {
		return nil, nil, err
	}
	return []probe.Endpoint{ep}, command, nil
}
