package com

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	readBufferSize        = 1024
	atSendingQueueTimeout = 500 * time.Millisecond
	readyRetryInterval    = 200 * time.Millisecond
	indicationQueueSize   = 32
)

// ErrSendingQueueTimeout is returned if a command could not be queued because another command is still active.
var ErrSendingQueueTimeout = errors.New("AT sending queue timeout")

// NewWithTrace creates a new COM instance that logs all communication with the modem on trace level.
func NewWithTrace(device io.ReadWriter, logger logrus.FieldLogger) *COM {
	return start(device, logger)
}

// New creates a new COM instance using the given io.ReadWriter to communicate with the GSM modem.
func New(device io.ReadWriter) *COM {
	return start(device, nil)
}

func start(device io.ReadWriter, logger logrus.FieldLogger) *COM {
	lines := readLoop(device)
	commands := make(chan command)
	result := &COM{
		commands:    commands,
		closed:      make(chan struct{}),
		logger:      logger,
		indications: make(map[string]indicationConfig),
	}
	unsolicited, dispatched := dispatchLoop()

	go func() {
		result.trace("session start")
		defer close(result.closed)
		defer func() {
			close(unsolicited)
			<-dispatched
		}()
		defer result.trace("session end")

		var commandCancelled <-chan struct{}
		var activeCommand *command
		var activeIndication *indication
		tick := time.NewTicker(100 * time.Millisecond)
		defer tick.Stop()

		for {
			select {
			case line, valid := <-lines:
				if !valid {
					return
				}
				result.traceData("rx", []byte(line))

				if activeIndication != nil {
					activeIndication.AddLine(line)
				} else {
					activeIndication = result.newIndication(line)
				}
				if activeIndication == nil && activeCommand != nil {
					activeCommand.AddLine(line)
					if activeCommand.Complete() {
						commandCancelled = nil
						activeCommand = nil
					}
				}
				if activeIndication != nil && activeIndication.Complete() {
					unsolicited <- *activeIndication
					activeIndication = nil
				}
			case <-commandCancelled:
				commandCancelled = nil
				activeCommand = nil
			case <-tick.C:
			}
			if activeCommand == nil {
				select {
				case cmd := <-commands:
					if len(cmd.request) == 0 {
						break
					}

					txbytes := terminate(cmd.request)
					result.traceData("tx", txbytes)
					_, err := device.Write(txbytes)
					if err != nil {
						cmd.err <- fmt.Errorf("cannot write %s: %w", cmd.request, err)
						break
					}
					commandCancelled = cmd.cancelled
					activeCommand = &cmd
				default:
				}
			}
		}
	}()

	return result
}

// COM allows to communicate with a GSM modem using AT commands. Unsolicited result codes, like
// the indication of a new message, are dispatched to the handlers registered with AddIndication.
type COM struct {
	commands chan<- command
	closed   chan struct{}
	logger   logrus.FieldLogger

	indicationsLock sync.RWMutex
	indications     map[string]indicationConfig
}

const (
	ctrlZ  = 0x1a
	escape = 0x1b
)

// terminate ends a request with CRLF. Requests ending with Ctrl-Z (send the PDU) or ESC (abort)
// are sent as they are.
func terminate(request string) []byte {
	result := []byte(request)
	switch result[len(result)-1] {
	case ctrlZ, escape:
		return result
	default:
		return append(result, '\r', '\n')
	}
}

// dispatchLoop calls the handlers of completed indications one after the other, in the order
// the modem sent them. The returned done channel is closed when all queued indications are handled.
func dispatchLoop() (chan<- indication, <-chan struct{}) {
	queue := make(chan indication, indicationQueueSize)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ind := range queue {
			ind.config.handler(ind.lines)
		}
	}()
	return queue, done
}

func readLoop(r io.Reader) <-chan string {
	lines := make(chan string, 1)
	go func() {
		buf := make([]byte, readBufferSize)
		currentLine := make([]byte, 0, readBufferSize)
		for {
			n, err := r.Read(buf)
			if err != nil {
				if len(currentLine) > 0 {
					lines <- string(currentLine)
				}
				close(lines)
				return
			}

			for _, b := range buf[0:n] {
				switch {
				case b == '\n':
					if len(currentLine) == 0 {
						continue
					}
					lines <- string(currentLine)
					currentLine = currentLine[:0]
				case b < ' ':
					continue
				default:
					currentLine = append(currentLine, b)
				}
			}
		}
	}()
	return lines
}

func (c *COM) Closed() bool {
	select {
	case <-c.closed:
		return true
	default:
		return false
	}
}

// WaitUntilClosed blocks until the connection to the device is closed.
func (c *COM) WaitUntilClosed(ctx context.Context) error {
	select {
	case <-c.closed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// AddIndication registers a handler for unsolicited result codes starting with the given prefix.
// The handler receives the line with the prefix and the given number of trailing lines, e.g. the PDU line
// of a +CMT indication. Handlers are called one at a time in the order of the indications, on a goroutine
// separate from the command processing.
func (c *COM) AddIndication(prefix string, trailingLines int, handler func(lines []string)) error {
	if prefix == "" {
		return fmt.Errorf("indication prefix must not be empty")
	}
	config := indicationConfig{
		prefix:        strings.ToUpper(prefix),
		trailingLines: trailingLines,
		handler:       handler,
	}
	c.indicationsLock.Lock()
	defer c.indicationsLock.Unlock()
	c.indications[config.prefix] = config
	return nil
}

func (c *COM) newIndication(line string) *indication {
	c.indicationsLock.RLock()
	defer c.indicationsLock.RUnlock()
	for _, config := range c.indications {
		result := config.NewIfMatches(line)
		if result != nil {
			return result
		}
	}
	return nil
}

// WaitUntilReady sends AT until the modem answers with OK. Some modems answer with errors
// while they are still starting up.
func (c *COM) WaitUntilReady(ctx context.Context) error {
	for {
		_, err := c.AT(ctx, "AT")
		if err == nil {
			return nil
		}
		var responseErr *ResponseError
		if !errors.As(err, &responseErr) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readyRetryInterval):
		}
	}
}

// AT sends the given request and returns the response lines without the final result code.
func (c *COM) AT(ctx context.Context, request string) ([]string, error) {
	cmd := command{
		request:   request,
		response:  make(chan []string, 1),
		err:       make(chan error, 1),
		cancelled: ctx.Done(),
		completed: make(chan struct{}),
	}

	select {
	case c.commands <- cmd:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(atSendingQueueTimeout):
		return nil, ErrSendingQueueTimeout
	}

	select {
	case response := <-cmd.response:
		return response, nil
	case err := <-cmd.err:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Request implements gsm.Requester.
func (c *COM) Request(ctx context.Context, request string) ([]string, error) {
	return c.AT(ctx, request)
}

// ATs sends the given requests one after the other and stops at the first error.
func (c *COM) ATs(ctx context.Context, requests ...string) error {
	for _, request := range requests {
		_, err := c.AT(ctx, request)
		if err != nil {
			return fmt.Errorf("%s failed: %w", request, err)
		}
	}
	return nil
}

func (c *COM) trace(msg string) {
	if c.logger == nil {
		return
	}
	c.logger.WithFields(nil).Trace(msg)
}

func (c *COM) traceData(direction string, data []byte) {
	if c.logger == nil {
		return
	}
	c.logger.WithFields(logrus.Fields{
		"direction": direction,
		"hex":       fmt.Sprintf("%X", data),
	}).Trace(strings.TrimSpace(string(data)))
}

// ResponseError is the final result code of a failed command: ERROR, +CME ERROR or +CMS ERROR.
type ResponseError struct {
	Line string
}

func (e *ResponseError) Error() string {
	return e.Line
}

// Code returns the numeric error code of a +CME ERROR or +CMS ERROR, -1 if there is none.
func (e *ResponseError) Code() int {
	i := strings.LastIndex(e.Line, ":")
	if i == -1 {
		return -1
	}
	code, err := strconv.Atoi(strings.TrimSpace(e.Line[i+1:]))
	if err != nil {
		return -1
	}
	return code
}

type indicationConfig struct {
	prefix        string
	trailingLines int
	handler       func(lines []string)
}

func (c *indicationConfig) NewIfMatches(line string) *indication {
	if !strings.HasPrefix(strings.ToUpper(line), c.prefix) {
		return nil
	}
	return &indication{
		config: *c,
		lines:  []string{line},
	}
}

type indication struct {
	config indicationConfig
	lines  []string
}

func (ind *indication) AddLine(line string) {
	if ind.Complete() {
		return
	}
	ind.lines = append(ind.lines, line)
}

func (ind *indication) Complete() bool {
	return len(ind.lines) >= ind.config.trailingLines+1
}

type command struct {
	lines     []string
	request   string
	response  chan []string
	err       chan error
	cancelled <-chan struct{}
	completed chan struct{}
}

func (c *command) AddLine(line string) {
	select {
	case <-c.cancelled:
		return
	case <-c.completed:
		return
	default:
	}

	saniLine := strings.TrimSpace(strings.ToUpper(line))
	switch {
	case saniLine == "OK":
		c.response <- c.lines
		close(c.completed)
	case strings.HasPrefix(saniLine, "ERROR"),
		strings.HasPrefix(saniLine, "+CME ERROR"),
		strings.HasPrefix(saniLine, "+CMS ERROR"):
		c.err <- &ResponseError{Line: line}
		close(c.completed)
	default:
		c.lines = append(c.lines, line)
	}
}

func (c *command) Complete() bool {
	select {
	case <-c.cancelled:
		return true
	case <-c.completed:
		return true
	default:
		return false
	}
}
