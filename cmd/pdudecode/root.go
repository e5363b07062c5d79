package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ftl/sms-pdu/config"
	"github.com/ftl/sms-pdu/gsm"
	"github.com/ftl/sms-pdu/pdu"
	"github.com/ftl/sms-pdu/report"
	"github.com/ftl/sms-pdu/wbxml"
)

var errInvalidInput = errors.New("at least one input is not a valid PDU string")

type app struct {
	cfg     config.Config
	logger  *logrus.Logger
	decoder *pdu.Decoder

	envFiles   []string
	jsonOutput bool
	pretty     bool
	report     report.Options

	openModem modemOpener
	// output serializes the rendering of messages that arrive while watching.
	output sync.Mutex
}

func newApp() *app {
	return &app{
		openModem: openSerialModem,
	}
}

func newRootCmd(a *app) *cobra.Command {
	result := &cobra.Command{
		Use:   "pdudecode [PDU...]",
		Short: "Decode SMS PDUs into readable fields",
		Long: `Decode SMS PDUs given as hex strings into readable fields.
Without arguments, every line of stdin is decoded as one PDU.`,
		Args:              cobra.ArbitraryArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runDecode,
	}

	flags := result.PersistentFlags()
	flags.StringSliceVar(&a.envFiles, "env-file", nil, "load the configuration from the given .env files")
	flags.BoolVar(&a.jsonOutput, "json", false, "render the fields as JSON")
	flags.BoolVar(&a.pretty, "pretty", false, "indent the JSON output")
	flags.BoolVar(&a.report.Brief, "brief", false, "hide the header details")
	flags.BoolVar(&a.report.NoColor, "no-color", false, "disable colored output")

	result.AddCommand(newModemCmd(a))
	return result
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	var err error
	a.cfg, err = config.Load(a.envFiles...)
	if err != nil {
		return a.fail(cmd, err)
	}
	a.logger, err = a.cfg.NewLogger()
	if err != nil {
		return a.fail(cmd, err)
	}
	a.logger.SetOutput(cmd.ErrOrStderr())

	opts := []pdu.Option{pdu.WithWBXMLTimeout(a.cfg.WBXMLTimeout)}
	if a.cfg.WBXMLURL != "" {
		decoder := wbxml.NewHTTPDecoder(a.cfg.WBXMLURL, nil).WithLogger(a.logger.WithField("component", "wbxml"))
		opts = append(opts, pdu.WithWBXMLDecoder(decoder))
		a.logger.WithField("url", a.cfg.WBXMLURL).Debug("WBXML decoding enabled")
	}
	a.decoder = pdu.NewDecoder(opts...)
	return nil
}

func (a *app) runDecode(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	inputs := args
	if len(inputs) == 0 {
		var err error
		inputs, err = readLines(cmd.InOrStdin())
		if err != nil {
			return a.fail(cmd, err)
		}
	}

	invalid := false
	first := true
	for _, input := range inputs {
		hex := gsm.Sanitize(input)
		if hex == "" {
			continue
		}
		fields, err := a.decoder.Decode(ctx, hex)
		if errors.Is(err, pdu.ErrInvalidPDUFormat) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Invalid PDU String! %s\n", hex)
			invalid = true
			continue
		}
		if err != nil {
			return a.fail(cmd, err)
		}

		if !first && !a.jsonOutput {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		first = false
		if err := a.render(cmd.OutOrStdout(), fields); err != nil {
			return a.fail(cmd, err)
		}
	}

	if invalid {
		return errInvalidInput
	}
	return nil
}

func (a *app) render(w io.Writer, fields pdu.Fields) error {
	if a.jsonOutput {
		return report.JSON(w, fields, a.pretty, a.report)
	}
	return report.Table(w, fields, a.report)
}

// fail reports the error on stderr, the usage is silenced.
func (a *app) fail(cmd *cobra.Command, err error) error {
	if a.logger != nil {
		a.logger.Error(err)
	} else {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
	}
	return err
}

func readLines(r io.Reader) ([]string, error) {
	result := make([]string, 0)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			result = append(result, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read stdin: %w", err)
	}
	return result, nil
}
