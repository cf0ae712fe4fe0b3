// Command hosttriple prints the host triple of the installed Rust toolchain.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/deixis/hosttriple"
	"github.com/deixis/hosttriple/internal/config"
	htmcp "github.com/deixis/hosttriple/internal/mcp"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("hosttriple: ")

	cmd := "print"
	var args []string
	if len(os.Args) >= 2 {
		cmd = os.Args[1]
		args = os.Args[2:]
	}

	var err error
	switch cmd {
	case "print":
		err = printMain(args)
	case "mcp":
		err = mcpMain(args)
	case "version":
		fmt.Println(hosttriple.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "hosttriple: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: hosttriple [command] [flags]

Commands:
  print       Print the host triple of rustc (default)
  mcp         Start the MCP server
  version     Print the version
  help        Show this help

Use "hosttriple <command> -h" for command-specific flags.`)
}

// --- print ---

func printMain(args []string) error {
	fs := flag.NewFlagSet("print", flag.ExitOnError)
	jsonFlag := fs.Bool("json", false, "output result as JSON")
	strategyFlag := fs.String("strategy", "", "parsing strategy: lines or bytes (overrides config)")
	timeoutFlag := fs.Duration("timeout", 0, "override configured timeout (e.g. 30s)")
	_ = fs.Parse(args)

	overrides, err := flagOverrides(*strategyFlag, *timeoutFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "hosttriple: %v\n", err)
		fs.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}
	opts, err := loadOptions(workspace, overrides...)
	if err != nil {
		return err
	}

	host, err := hosttriple.Query(ctx, opts...)

	if *jsonFlag {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(newPrintResult(host, err)); encErr != nil {
			return encErr
		}
		if err != nil {
			os.Exit(1)
		}
		return nil
	}

	if err != nil {
		return err
	}
	fmt.Println(host)
	return nil
}

type printResult struct {
	Host  string `json:"host,omitempty"`
	Error string `json:"error,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

func newPrintResult(host string, err error) printResult {
	if err == nil {
		return printResult{Host: host}
	}
	r := printResult{Error: err.Error()}
	var qe *hosttriple.Error
	if errors.As(err, &qe) {
		r.Kind = qe.Kind.String()
	}
	return r
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(htmcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}
	opts, err := loadOptions(workspace)
	if err != nil {
		return err
	}
	server := htmcp.NewServer(opts...)

	if *httpAddr != "" {
		return serveHTTP(ctx, server, *httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// --- shared ---

// flagOverrides validates the print flags and turns them into options
// applied after the config file.
func flagOverrides(strategy string, timeout time.Duration) ([]hosttriple.Option, error) {
	var opts []hosttriple.Option
	if strategy != "" {
		s, err := hosttriple.ParseStrategy(strategy)
		if err != nil {
			return nil, err
		}
		opts = append(opts, hosttriple.WithStrategy(s))
	}
	if timeout < 0 {
		return nil, fmt.Errorf("invalid -timeout %s: must not be negative", timeout)
	}
	if timeout > 0 {
		opts = append(opts, hosttriple.WithTimeout(timeout))
	}
	return opts, nil
}

// loadOptions reads .hosttriple from the project root above workspace
// and appends overrides, which take precedence.
func loadOptions(workspace string, overrides ...hosttriple.Option) ([]hosttriple.Option, error) {
	loaded, err := config.Load(workspace)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	opts, err := loaded.Config.Options()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return append(opts, overrides...), nil
}
