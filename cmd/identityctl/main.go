package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/pkg/errors"
)

// Supported subcommands:
// - migrate:          Apply the embedded schema migrations
// - enroll-biometric: Set or rotate a user's biometric token
// - inspect-token:    Verify a session token and print its claims

func main() {
	migrateCmd := flag.NewFlagSet("migrate", flag.ExitOnError)
	enrollCmd := flag.NewFlagSet("enroll-biometric", flag.ExitOnError)
	inspectCmd := flag.NewFlagSet("inspect-token", flag.ExitOnError)

	// enroll-biometric parameters
	enrollUser := enrollCmd.String("user", "", "ID of the user to enroll")
	enrollToken := enrollCmd.String("token", "", "Biometric token to store (generated when empty)")

	// inspect-token parameters
	inspectToken := inspectCmd.String("token", "", "Session token to verify")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	flags := ctlFlags{
		Migrate: migrateFlags{
			cmd: migrateCmd,
		},
		Enroll: enrollFlags{
			cmd:   enrollCmd,
			user:  enrollUser,
			token: enrollToken,
		},
		Inspect: inspectFlags{
			cmd:   inspectCmd,
			token: inspectToken,
		},
	}

	if err := runSubcommand(ctx, &flags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type ctlFlags struct {
	Migrate migrateFlags
	Enroll  enrollFlags
	Inspect inspectFlags
}

type migrateFlags struct {
	cmd *flag.FlagSet
}

type enrollFlags struct {
	cmd   *flag.FlagSet
	user  *string
	token *string
}

type inspectFlags struct {
	cmd   *flag.FlagSet
	token *string
}

func runSubcommand(ctx context.Context, flags *ctlFlags) error {
	switch os.Args[1] {
	case "migrate":
		return handleMigrate(ctx, flags)
	case "enroll-biometric":
		return handleEnroll(ctx, flags)
	case "inspect-token":
		return handleInspect(flags)
	default:
		printUsage()

		return errors.New("unknown subcommand")
	}
}

func handleMigrate(ctx context.Context, flags *ctlFlags) error {
	if err := flags.Migrate.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse migrate flags")
	}

	return runMigrate(ctx)
}

func handleEnroll(ctx context.Context, flags *ctlFlags) error {
	if err := flags.Enroll.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse enroll-biometric flags")
	}

	if *flags.Enroll.user == "" {
		return errors.New("--user flag is required for enroll-biometric command")
	}

	return runEnroll(ctx, *flags.Enroll.user, *flags.Enroll.token)
}

func handleInspect(flags *ctlFlags) error {
	if err := flags.Inspect.cmd.Parse(os.Args[2:]); err != nil {
		return errors.Wrap(err, "failed to parse inspect-token flags")
	}

	if *flags.Inspect.token == "" {
		return errors.New("--token flag is required for inspect-token command")
	}

	return runInspect(*flags.Inspect.token)
}

func printUsage() {
	fmt.Println("Usage: identityctl <command> [options]")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  migrate            Apply database migrations")
	fmt.Println("  enroll-biometric   Set or rotate a user's biometric token")
	fmt.Println("  inspect-token      Verify a session token and print its claims")
	fmt.Println("")
	fmt.Println("Use 'identityctl <command> -h' for more information about a command.")
}
