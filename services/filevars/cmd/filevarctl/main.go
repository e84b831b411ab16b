package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"filevars/pkg/metrics"
	"filevars/pkg/render"
	gos3 "filevars/pkg/s3"
	"filevars/pkg/telemetry"
	"filevars/services/filevars"
)

func main() {
	if err := newRootCommand(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "filevarctl",
		Short:         "Build file-valued process variables and inspect the job metrics catalogue",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.AddCommand(newBuildCommand())
	cmd.AddCommand(newCatalogueCommand())
	return cmd
}

func newBuildCommand() *cobra.Command {
	var (
		name       string
		path       string
		useStdin   bool
		bucket     string
		key        string
		mimeType   string
		encoding   string
		detectMime bool
		decompress string
		chunkSize  int
		output     string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a file value from a file, stdin or an S3 object and print its descriptor",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			tel, err := telemetry.Init(ctx, "filevarctl", telemetry.Options{Output: cmd.ErrOrStderr()})
			if err != nil {
				return fmt.Errorf("init telemetry: %w", err)
			}
			defer func() {
				if err := tel.Shutdown(context.Background()); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "telemetry shutdown error: %v\n", err)
				}
			}()

			req := filevars.Request{
				Name:           name,
				Path:           path,
				Bucket:         bucket,
				Key:            key,
				MimeType:       mimeType,
				Encoding:       encoding,
				DetectMimeType: detectMime,
				Compression:    decompress,
			}
			if useStdin {
				req.Stream = cmd.InOrStdin()
			}

			var objects *gos3.Client
			if bucket != "" || key != "" {
				if bucket == "" || key == "" {
					return errors.New("--s3-bucket and --s3-key must be given together")
				}
				objects, err = gos3.NewClientFromEnv(ctx)
				if err != nil {
					return fmt.Errorf("s3 client: %w", err)
				}
			}

			service := filevars.NewService(nil, chunkSize)
			if objects != nil {
				service = filevars.NewService(objects, chunkSize)
			}

			ctx, span := tel.Tracer.Start(ctx, "filevarctl.build")
			span.SetAttributes(attribute.String("filevars.name", name))
			value, err := service.Ingest(ctx, req)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				span.End()
				tel.LogContext(ctx, "error", "build %q: %v", name, err)
				return fmt.Errorf("build %q: %w", name, err)
			}
			span.SetAttributes(attribute.Int64("filevars.size", value.Size()))
			span.End()

			desc := filevars.Describe(value)
			tel.LogContext(ctx, "info", "built %q size=%d", desc.Name, desc.Size)

			engine, err := render.New()
			if err != nil {
				return err
			}
			return filevars.WriteOutput(cmd.OutOrStdout(), output, engine, "descriptor.tmpl", desc)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Variable name")
	cmd.Flags().StringVar(&path, "file", "", "Read the payload from this file")
	cmd.Flags().BoolVar(&useStdin, "stdin", false, "Read the payload from standard input")
	cmd.Flags().StringVar(&bucket, "s3-bucket", "", "Read the payload from this S3 bucket (requires --s3-key)")
	cmd.Flags().StringVar(&key, "s3-key", "", "Object key within --s3-bucket")
	cmd.Flags().StringVar(&mimeType, "mime", "", "MIME type of the payload")
	cmd.Flags().StringVar(&encoding, "encoding", "", "Text encoding of the payload (IANA name, e.g. UTF-8)")
	cmd.Flags().BoolVar(&detectMime, "detect-mime", false, "Detect the MIME type from content when none is given")
	cmd.Flags().StringVar(&decompress, "decompress", "", "Decompress the payload before building (zstd)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Read chunk size in bytes (default 4096)")
	cmd.Flags().StringVarP(&output, "output", "o", filevars.FormatJSON, "Output format: json, yaml or text")
	_ = cmd.MarkFlagRequired("name")
	cmd.MarkFlagsMutuallyExclusive("file", "stdin", "s3-bucket")
	cmd.MarkFlagsOneRequired("file", "stdin", "s3-bucket")
	return cmd
}

func newCatalogueCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:     "catalogue",
		Aliases: []string{"catalog"},
		Short:   "List the job acquisition metric identifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := render.New()
			if err != nil {
				return err
			}
			return filevars.WriteOutput(cmd.OutOrStdout(), output, engine, "catalogue.tmpl", metrics.Default().Entries())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", filevars.FormatText, "Output format: json, yaml or text")
	return cmd
}
