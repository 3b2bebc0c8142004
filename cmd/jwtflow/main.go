// jwtflow signs and verifies HMAC JSON Web Tokens for named profiles.
//
// Profiles come from a YAML file (--profiles or JWTFLOW_PROFILES) or, when
// no file is given, from the JWT_ISSUER, JWT_ALGORITHM and JWT_SECRET
// environment variables as the "default" profile.
//
//	jwtflow serve  [--profiles file] [--addr :8080]
//	jwtflow sign   [--profile name] [--subject s] [--audience a] [--expires-in N] [--claims JSON] [--id]
//	jwtflow verify [--profile name] TOKEN
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const serviceName = "jwtflow"

// exitError carries a process exit code without printing an error message.
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func (e exitError) ExitCode() int { return e.code }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()

	if err != nil {
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return exitError{code: 2}
	}

	switch args[0] {
	case "serve":
		return runServe(ctx, args[1:], stderr)
	case "sign":
		return runSign(args[1:], stdout, stderr)
	case "verify":
		return runVerify(args[1:], stdin, stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `Usage: jwtflow <command> [flags]

Commands:
  serve    run the HTTP token API
  sign     sign a token and print it
  verify   verify a token; exits 1 when it is invalid

Run "jwtflow <command> --help" for command flags.
`)
}
