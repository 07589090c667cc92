package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"golang.org/x/sync/errgroup"
	yaml "gopkg.in/yaml.v3"

	maillib "github.com/nitro-mail/mail-lib"
	"github.com/nitro-mail/mail-lib/internal/logging"
)

type CLI struct {
	Mailbox             bool       `name:"mailbox" help:"Parse inputs as mailboxes (optional display name plus address)." env:"ADDRCHK_MAILBOX" default:"false"`
	Format              string     `name:"format" help:"Output format." env:"ADDRCHK_FORMAT" enum:"text,json,yaml" default:"text"`
	Digest              bool       `name:"digest" help:"Include the stable content digest with each canonical form." env:"ADDRCHK_DIGEST" default:"false"`
	LowercaseDomain     bool       `name:"lowercase-domain" help:"Lowercase domain names in canonical output." env:"ADDRCHK_LOWERCASE_DOMAIN" default:"false"`
	PermissiveLocalPart bool       `name:"permissive-local-part" help:"Allow local parts that are not compliant with RFC 5322." env:"ADDRCHK_PERMISSIVE_LOCAL_PART" default:"false"`
	Quiet               bool       `name:"quiet" help:"Suppress diagnostics for inputs that fail to parse." env:"ADDRCHK_QUIET" default:"false"`
	LogLevel            slog.Level `name:"log-level" help:"Log level." env:"ADDRCHK_LOG_LEVEL" default:"INFO" enum:"DEBUG,INFO,WARN,ERROR"`
	Files               []string   `name:"file" short:"f" help:"Read inputs from files, one per line; blank lines and #-comments are skipped." optional:""`
	Inputs              []string   `arg:"" optional:"" help:"Addresses or mailboxes to check."`
}

func (CLI *CLI) initLogger(*kong.Context) *slog.Logger {
	if CLI.Quiet {
		return slog.New(logging.BlackholeHandler{})
	}
	var handler slog.Handler
	if isatty.IsTerminal(os.Stdout.Fd()) {
		handler = tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{Level: CLI.LogLevel})
	} else {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: CLI.LogLevel})
	}
	return slog.New(handler)
}

func (CLI *CLI) options() []maillib.Option {
	return []maillib.Option{
		maillib.WithPermissiveLocalPart(CLI.PermissiveLocalPart),
		maillib.WithLowercaseDomain(CLI.LowercaseDomain),
	}
}

type report struct {
	Input     string `json:"input" yaml:"input"`
	Canonical string `json:"canonical" yaml:"canonical"`
	Digest    string `json:"digest,omitempty" yaml:"digest,omitempty"`
}

func (CLI *CLI) check(input string) (report, error) {
	r := report{Input: input}
	if CLI.Mailbox {
		mb, err := maillib.ParseMailbox(input, CLI.options()...)
		if err != nil {
			return r, err
		}
		r.Canonical = mb.String()
		if CLI.Digest {
			r.Digest = mb.Digest().String()
		}
		return r, nil
	}
	addr, err := maillib.ParseAddress(input, CLI.options()...)
	if err != nil {
		return r, err
	}
	r.Canonical = addr.String()
	if CLI.Digest {
		r.Digest = addr.Digest().String()
	}
	return r, nil
}

func (CLI *CLI) checkFile(logger *slog.Logger, path string) ([]report, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()
	var reports []report
	ok := true
	sc := bufio.NewScanner(f)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		r, err := CLI.check(line)
		if err != nil {
			ok = false
			logger.Warn("invalid input",
				slog.String("file", path),
				slog.Int("line", lineno),
				slog.String("input", line),
				slog.Any("error", err))
			continue
		}
		reports = append(reports, r)
	}
	if err := sc.Err(); err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return reports, ok, nil
}

func (CLI *CLI) emit(reports []report) error {
	switch CLI.Format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
	case "yaml":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		for _, r := range reports {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
	default:
		for _, r := range reports {
			if r.Digest != "" {
				fmt.Printf("%s\t%s\n", r.Canonical, r.Digest)
			} else {
				fmt.Println(r.Canonical)
			}
		}
	}
	return nil
}

func main() {
	var CLI CLI
	kongCtx := kong.Parse(&CLI)
	logger := CLI.initLogger(kongCtx)

	if len(CLI.Inputs) == 0 && len(CLI.Files) == 0 {
		kongCtx.FatalIfErrorf(errors.New("nothing to check; pass addresses or --file"))
	}

	ok := true
	var reports []report
	for _, input := range CLI.Inputs {
		r, err := CLI.check(input)
		if err != nil {
			ok = false
			logger.Warn("invalid input", slog.String("input", input), slog.Any("error", err))
			continue
		}
		reports = append(reports, r)
	}

	if len(CLI.Files) > 0 {
		fileReports := make([][]report, len(CLI.Files))
		fileOK := make([]bool, len(CLI.Files))
		var g errgroup.Group
		for i, path := range CLI.Files {
			i, path := i, path
			g.Go(func() error {
				var err error
				fileReports[i], fileOK[i], err = CLI.checkFile(logger, path)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			kongCtx.FatalIfErrorf(err)
		}
		for i := range fileReports {
			reports = append(reports, fileReports[i]...)
			ok = ok && fileOK[i]
		}
	}

	if err := CLI.emit(reports); err != nil {
		kongCtx.FatalIfErrorf(err)
	}
	if !ok {
		os.Exit(1)
	}
}
