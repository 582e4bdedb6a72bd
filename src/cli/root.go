// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"context"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/H0llyW00dzZ/tls-trust-path-builder/src/internal/helper/gc"
	"github.com/H0llyW00dzZ/tls-trust-path-builder/src/internal/helper/posix"
	x509certs "github.com/H0llyW00dzZ/tls-trust-path-builder/src/internal/x509/certs"
	"github.com/H0llyW00dzZ/tls-trust-path-builder/src/internal/x509/trustpath"
	"github.com/H0llyW00dzZ/tls-trust-path-builder/src/logger"
	"github.com/spf13/cobra"
)

var (
	// ErrInputFileRequired is returned when neither a leaf certificate file
	// nor a remote host was provided.
	ErrInputFileRequired = errors.New("cli: leaf certificate file is required (use -f or --host)")
	// ErrRootsFileRequired is returned when no trusted roots file was provided.
	ErrRootsFileRequired = errors.New("cli: trusted roots file is required (use -r)")
)

// OperationPerformed indicates whether a trust path evaluation was started.
var OperationPerformed bool

// OperationPerformedSuccessfully indicates whether the evaluation completed
// without errors.
var OperationPerformedSuccessfully bool

// options holds the parsed command-line flags for a single invocation.
// A fresh instance per Execute call keeps repeated invocations (tests,
// embedding) from seeing stale flag state.
type options struct {
	leafFile         string
	bagFile          string
	rootsFile        string
	remoteHost       string
	remotePort       int
	outputFile       string
	intermediateOnly bool
	derFormat        bool
	jsonFormat       bool
	treeFormat       bool
	tableFormat      bool
}

// Execute runs the root command and returns any execution error. The context
// cancels an in-flight path search when the caller receives a termination
// signal.
func Execute(ctx context.Context, version string, log logger.Logger) error {
	OperationPerformed = false
	OperationPerformedSuccessfully = false

	opts := &options{}
	exeName := posix.GetExecutableName()

	rootCmd := &cobra.Command{
		Use:     exeName,
		Short:   "TLS trust path builder",
		Long:    "Builds the preferred trust path from a leaf certificate through an unordered candidate bag to an explicitly trusted root.",
		Version: version,
		Example: fmt.Sprintf(`  %s -f leaf.pem -r roots.pem
  %s -f leaf.pem -b bundle.pem -r roots.pem -t
  %s --host example.com -r roots.pem --table`, exeName, exeName, exeName),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, log)
		},
	}

	rootCmd.Flags().StringVarP(&opts.leafFile, "file", "f", "", "leaf certificate file (PEM, DER, or PKCS#7)")
	rootCmd.Flags().StringVarP(&opts.bagFile, "bag", "b", "", "candidate certificate bundle file (unordered, any format)")
	rootCmd.Flags().StringVarP(&opts.rootsFile, "roots", "r", "", "trusted root certificates file")
	rootCmd.Flags().StringVar(&opts.remoteHost, "host", "", "fetch the leaf and candidate bag from a remote TLS server")
	rootCmd.Flags().IntVar(&opts.remotePort, "port", 443, "remote TLS port")
	rootCmd.Flags().StringVarP(&opts.outputFile, "output", "o", "", "output to OUTPUT_FILE (default: stdout)")
	rootCmd.Flags().BoolVarP(&opts.intermediateOnly, "intermediate-only", "i", false, "output intermediate certificates only")
	rootCmd.Flags().BoolVarP(&opts.derFormat, "der", "d", false, "output DER format")
	rootCmd.Flags().BoolVarP(&opts.jsonFormat, "json", "j", false, "output visualization JSON")
	rootCmd.Flags().BoolVarP(&opts.treeFormat, "tree", "t", false, "output ASCII tree diagram")
	rootCmd.Flags().BoolVar(&opts.tableFormat, "table", false, "output formatted table")

	return rootCmd.ExecuteContext(ctx)
}

// run evaluates the trust path for the given options and writes the result.
func run(ctx context.Context, opts *options, log logger.Logger) error {
	leaf, bag, err := collectInput(ctx, opts, log)
	if err != nil {
		return err
	}

	if opts.rootsFile == "" {
		return ErrRootsFileRequired
	}
	roots, err := readBundle(opts.rootsFile)
	if err != nil {
		return fmt.Errorf("reading trusted roots: %w", err)
	}

	OperationPerformed = true

	chain, err := trustpath.NewEvaluator().CheckServerTrusted(ctx, bag, roots, leaf)
	if err != nil {
		return err
	}

	log.Printf("Trust path found: %d certificate(s)", len(chain.Certs))

	if err := writeOutput(opts, chain); err != nil {
		return err
	}

	OperationPerformedSuccessfully = true
	return nil
}

// collectInput gathers the leaf certificate and the candidate bag, either
// from local files or from a remote TLS handshake.
func collectInput(ctx context.Context, opts *options, log logger.Logger) (*x509.Certificate, []*x509.Certificate, error) {
	if opts.remoteHost != "" {
		log.Printf("Fetching certificates from %s:%d...", opts.remoteHost, opts.remotePort)
		leaf, bag, err := trustpath.FetchRemoteBag(ctx, opts.remoteHost, opts.remotePort, 30*time.Second)
		if err != nil {
			return nil, nil, err
		}
		return leaf, bag, nil
	}

	if opts.leafFile == "" {
		return nil, nil, ErrInputFileRequired
	}

	leafData, err := readFile(opts.leafFile)
	if err != nil {
		return nil, nil, fmt.Errorf("reading leaf certificate: %w", err)
	}
	leaf, err := x509certs.New().Decode(leafData)
	if err != nil {
		return nil, nil, fmt.Errorf("decoding leaf certificate: %w", err)
	}

	var bag []*x509.Certificate
	if opts.bagFile != "" {
		if bag, err = readBundle(opts.bagFile); err != nil {
			return nil, nil, fmt.Errorf("reading candidate bag: %w", err)
		}
	}

	// The leaf always participates in the search as a bag member.
	return leaf, append([]*x509.Certificate{leaf}, bag...), nil
}

// readFile reads a file through the shared buffer pool.
func readFile(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	if _, err := buf.ReadFrom(file); err != nil {
		return nil, err
	}

	// Copy out before the buffer returns to the pool.
	data := make([]byte, buf.Len())
	copy(data, buf.Bytes())
	return data, nil
}

// readBundle reads and decodes a multi-certificate file in any supported format.
func readBundle(path string) ([]*x509.Certificate, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return x509certs.New().DecodeBundle(data)
}

// writeOutput renders the chain in the selected format and writes it to the
// output file or stdout.
func writeOutput(opts *options, chain *trustpath.Chain) error {
	certsToOutput := chain.Certs
	if opts.intermediateOnly {
		certsToOutput = chain.FilterIntermediates()
	}

	var outputData []byte
	switch {
	case opts.jsonFormat:
		data, err := chain.ToVisualizationJSON()
		if err != nil {
			return fmt.Errorf("rendering JSON: %w", err)
		}
		outputData = append(data, '\n')
	case opts.treeFormat:
		outputData = []byte(chain.RenderASCIITree())
	case opts.tableFormat:
		outputData = []byte(chain.RenderTable())
	case opts.derFormat:
		outputData = x509certs.New().EncodeMultipleDER(certsToOutput)
	default:
		outputData = x509certs.New().EncodeMultiplePEM(certsToOutput)
	}

	if opts.outputFile != "" {
		return os.WriteFile(opts.outputFile, outputData, 0644)
	}

	fmt.Print(string(outputData))
	return nil
}
