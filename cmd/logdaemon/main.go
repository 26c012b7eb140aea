// Package main is the logdaemon command. It rotates the log files passed on
// the command line once they reach a size or age, keeps a bounded number of
// rotated copies next to each log and uploads every new copy to S3.
// Run it from cron.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golift.io/logdaemon"
	"golift.io/logdaemon/compressor"
	"golift.io/logdaemon/s3push"
	"golift.io/logdaemon/threshold"
)

const (
	envPrefix = "LOGDAEMON"
	minArgs   = 6
)

var errUsage = errors.New("usage error")

const usageText = `Usage: logdaemon <size|date> <threshold> <max_copies> <bucket> <prefix> <file> [file...]

  size|date    rotate on file size or on file age
  threshold    size: 500K, 100M, 2G, 1T or bytes; date: 30m, 12h, 10d, 2w
  max_copies   rotated copies kept per log, including the new one
  bucket       S3 bucket receiving the rotated copies
  prefix       log group name added to uploaded file names
  file         one or more log files to check

Flags may also be set with LOGDAEMON_* environment variables, e.g. LOGDAEMON_REGION.
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCmd(viper.New(), stdout, stderr)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(stdout, usageText)
		}

		fmt.Fprintln(stderr, "ERROR:", err)

		if errors.Is(err, logdaemon.ErrCredentials) {
			fmt.Fprintf(stderr, "Put %s and %s in %s or export them in the environment.\n",
				s3push.AccessKeyName, s3push.SecretKeyName, s3push.DefaultCredentialsFile())
		}

		return 1
	}

	return 0
}

func newRootCmd(v *viper.Viper, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logdaemon <size|date> <threshold> <max_copies> <bucket> <prefix> <file> [file...]",
		Short: "Rotate log files and upload the rotated copies to S3",
		Example: `  logdaemon size 100M 5 weblogs nginx /var/log/nginx/access.log /var/log/nginx/error.log
  logdaemon date 1d 7 archive app /var/log/app.log --utc --log-format json`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) < minArgs {
				return fmt.Errorf("%w: %d arguments given, %d or more required", errUsage, len(args), minArgs)
			}

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			v.SetEnvPrefix(envPrefix)
			v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
			v.AutomaticEnv()

			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return rotate(cmd.Context(), v, args, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.String("env-file", s3push.DefaultCredentialsFile(), "JSON file with S3_ACCESS_KEY and S3_SECRET_KEY")
	flags.String("region", s3push.DefaultRegion, "S3 region")
	flags.String("endpoint", "", "custom S3 endpoint, e.g. a MinIO server")
	flags.Duration("timeout", logdaemon.DefaultTimeout, "timeout for each upload")
	flags.String("lzop", "", "lzop binary; default looks in /usr/bin then $PATH")
	flags.Bool("no-compress", false, "never compress rotated copies")
	flags.Bool("utc", false, "use UTC for time stamps and object keys")
	flags.String("log-level", "info", "trace, debug, info, warn or error")
	flags.String("log-format", "console", "console or json")
	flags.String("log-file", "", "also write logs to this file; rotated automatically")

	return cmd
}

// rotate turns the positional arguments and bound flags into an engine and runs it once.
func rotate(ctx context.Context, v *viper.Viper, args []string, stderr io.Writer) error {
	config, err := parseArgs(args)
	if err != nil {
		return err
	}

	log, closer, err := newLogger(&logConfig{
		Level:  v.GetString("log-level"),
		Format: v.GetString("log-format"),
		File:   v.GetString("log-file"),
	}, stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	config.Log = log
	config.Timeout = v.GetDuration("timeout")
	config.UseUTC = v.GetBool("utc")

	if !v.GetBool("no-compress") {
		// Never store a nil *Lzop in the interface.
		if lzop := probe(v.GetString("lzop")); lzop != nil {
			config.Compressor = lzop
			log.Debug().Str("lzop", lzop.Path).Msg("compression enabled")
		} else {
			log.Info().Msg("lzop not found, rotated copies are not compressed")
		}
	}

	engine, err := logdaemon.New(config)
	if err != nil {
		return err //nolint:wrapcheck
	}

	report, err := engine.Run(ctx, logdaemon.S3Dialer(v.GetString("env-file"), s3push.Options{
		Region:   v.GetString("region"),
		Endpoint: v.GetString("endpoint"),
		Bucket:   config.Bucket,
	}))
	if err != nil {
		return err //nolint:wrapcheck
	}

	log.Info().Int("selected", len(report.Selected)).Int("failed", len(report.Failed())).
		Dur("elapsed", report.Elapsed).Msg("finished")

	return report.Err()
}

// parseArgs validates the positional arguments:
// mode, threshold, max copies, bucket, prefix and one or more files.
func parseArgs(args []string) (*logdaemon.Config, error) {
	limit, err := threshold.Parse(args[0], args[1])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}

	maxCopies, err := strconv.Atoi(args[2])
	if err != nil || maxCopies < 1 {
		return nil, fmt.Errorf("%w: max_copies must be a positive integer, got %q", errUsage, args[2])
	}

	return &logdaemon.Config{
		Threshold: limit,
		FileCount: maxCopies,
		Bucket:    args[3],
		Prefix:    args[4],
		Files:     args[5:],
	}, nil
}

func probe(path string) *compressor.Lzop {
	if path != "" {
		return compressor.Probe(path)
	}

	return compressor.Probe()
}
