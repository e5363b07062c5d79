package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ftl/sms-pdu/com"
	"github.com/ftl/sms-pdu/modem"
	"github.com/ftl/sms-pdu/serial"
)

const readyTimeout = 5 * time.Second

// modemDevice is the AT command interface of a connected GSM modem.
type modemDevice interface {
	modem.Modem
	WaitUntilReady(ctx context.Context) error
	WaitUntilClosed(ctx context.Context) error
}

type modemOpener func(port string, trace bool, logger logrus.FieldLogger) (modemDevice, io.Closer, error)

func openSerialModem(port string, trace bool, logger logrus.FieldLogger) (modemDevice, io.Closer, error) {
	if port == "" {
		var err error
		port, err = serial.FindModemPortName()
		if err != nil {
			return nil, nil, err
		}
		logger.WithField("port", port).Info("using detected modem")
	}

	var (
		device *com.COM
		closer io.Closer
		err    error
	)
	if trace {
		device, closer, err = serial.OpenWithTrace(port, logger)
	} else {
		device, closer, err = serial.Open(port)
	}
	if err != nil {
		return nil, nil, err
	}
	return device, closer, nil
}

func newModemCmd(a *app) *cobra.Command {
	var port, storage string
	result := &cobra.Command{
		Use:   "modem",
		Short: "Read SMS PDUs from a GSM modem",
	}
	result.PersistentFlags().StringVar(&port, "port", "", "serial port of the modem, overrides PDU_MODEM_PORT, empty: auto-detect")
	result.PersistentFlags().StringVar(&storage, "storage", "", "message storage, e.g. SM or ME")

	var status string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List and decode the stored messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			messageStatus, err := modem.ParseMessageStatus(status)
			if err != nil {
				return a.fail(cmd, err)
			}
			return a.withModem(cmd, port, storage, func(ctx context.Context, device modemDevice) error {
				messages, err := modem.ListMessages(ctx, device, messageStatus)
				if err != nil {
					return err
				}
				for i, message := range messages {
					if i > 0 && !a.jsonOutput {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					if err := a.renderMessage(ctx, cmd.OutOrStdout(), message); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
	listCmd.Flags().StringVar(&status, "status", modem.AllMessages.String(), "message status, e.g. \"REC UNREAD\" or 0-4")

	readCmd := &cobra.Command{
		Use:   "read <index>",
		Short: "Read and decode the message at the given storage index",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return a.fail(cmd, fmt.Errorf("invalid index %s: %w", args[0], err))
			}
			return a.withModem(cmd, port, storage, func(ctx context.Context, device modemDevice) error {
				message, err := modem.ReadMessage(ctx, device, index)
				if err != nil {
					return err
				}
				return a.renderMessage(ctx, cmd.OutOrStdout(), message)
			})
		},
	}

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Decode new messages as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withModem(cmd, port, storage, func(ctx context.Context, device modemDevice) error {
				err := modem.Watch(ctx, device, a.logger, func(message modem.StoredMessage) {
					a.output.Lock()
					defer a.output.Unlock()
					if err := a.renderMessage(ctx, cmd.OutOrStdout(), message); err != nil {
						a.logger.WithError(err).Warn("cannot render message")
					}
					if !a.jsonOutput {
						fmt.Fprintln(cmd.OutOrStdout())
					}
				})
				if err != nil {
					return err
				}
				a.logger.Info("waiting for new messages")

				err = device.WaitUntilClosed(ctx)
				if errors.Is(err, context.Canceled) {
					return nil
				}
				return err
			})
		},
	}

	result.AddCommand(listCmd, readCmd, watchCmd)
	return result
}

func (a *app) withModem(cmd *cobra.Command, port, storage string, f func(context.Context, modemDevice) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if port == "" {
		port = a.cfg.ModemPort
	}
	device, closer, err := a.openModem(port, a.cfg.Trace, a.logger)
	if err != nil {
		return a.fail(cmd, err)
	}
	defer closer.Close()

	readyCtx, cancelReady := context.WithTimeout(ctx, readyTimeout)
	err = device.WaitUntilReady(readyCtx)
	cancelReady()
	if err != nil {
		return a.fail(cmd, fmt.Errorf("modem is not ready: %w", err))
	}

	if err := modem.Prepare(ctx, device); err != nil {
		return a.fail(cmd, err)
	}
	if storage != "" {
		if _, err := device.Request(ctx, modem.SelectStorage(storage)); err != nil {
			return a.fail(cmd, fmt.Errorf("cannot select storage %s: %w", storage, err))
		}
	}

	if err := f(ctx, device); err != nil {
		return a.fail(cmd, err)
	}
	return nil
}

func (a *app) renderMessage(ctx context.Context, w io.Writer, message modem.StoredMessage) error {
	logger := a.logger.WithFields(logrus.Fields{
		"index":  message.Index,
		"status": message.Status.String(),
	})
	if !message.TPDULengthMatches() {
		logger.WithField("length", message.Length).Warn("reported TPDU length does not match the PDU")
	}

	fields, err := a.decoder.Decode(ctx, message.PDU)
	if err != nil {
		return fmt.Errorf("cannot decode message %d: %w", message.Index, err)
	}
	if !a.jsonOutput && message.Index >= 0 {
		fmt.Fprintf(w, "Message %d (%s)\n", message.Index, message.Status)
	}
	return a.render(w, fields)
}
