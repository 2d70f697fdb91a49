// Command wsc-enrollee runs the WSC 2.0.5 Enrollee state machine against
// an external EAP peer process communicating over stdin/stdout using a
// simple length-prefixed frame format: one byte Op-Code, four bytes
// big-endian body length, then the body.
package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/spf13/cobra"

	wsc "github.com/wlan-go/eap-wsc"
)

var configPath string

func main() {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr))
	logger = level.NewFilter(logger, level.AllowInfo())
	logger = log.With(logger, "ts", log.DefaultTimestampUTC)

	root := &cobra.Command{
		Use:   "wsc-enrollee",
		Short: "WSC 2.0.5 Enrollee state machine",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a WSC enrollee config file")

	root.AddCommand(newRunCmd(logger))
	root.AddCommand(newVectorsCmd(logger))

	if err := root.Execute(); err != nil {
		level.Error(logger).Log("err", err)
		os.Exit(1)
	}
}

func newRunCmd(logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "run one WSC exchange to completion over stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := wsc.LoadConfig(configPath)
			if err != nil {
				return err
			}
			session, err := wsc.NewSession(logger, id)
			if err != nil {
				return err
			}
			defer session.Destroy()

			method := wsc.NewMethod(logger, session, &stdioTransport{r: os.Stdin, w: os.Stdout})
			result, err := method.Run()
			if err != nil {
				return err
			}
			for _, c := range result.Credentials {
				fmt.Fprintf(cmd.OutOrStdout(), "credential ssid=%s\n", c.SSID)
			}
			return nil
		},
	}
}

func newVectorsCmd(logger log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "vectors",
		Short: "print this enrollee's M1 as a hex test vector and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := wsc.LoadConfig(configPath)
			if err != nil {
				return err
			}
			session, err := wsc.NewSession(logger, id)
			if err != nil {
				return err
			}
			defer session.Destroy()
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(session.BuildM1()))
			return nil
		},
	}
}

// stdioTransport implements wsc.Transport over a pair of byte streams
// using a one-byte Op-Code plus four-byte big-endian length header.
type stdioTransport struct {
	r io.Reader
	w io.Writer
}

func (t *stdioTransport) Send(opCode byte, body []byte) error {
	hdr := make([]byte, 5)
	hdr[0] = opCode
	binary.BigEndian.PutUint32(hdr[1:], uint32(len(body)))
	if _, err := t.w.Write(hdr); err != nil {
		return err
	}
	_, err := t.w.Write(body)
	return err
}

func (t *stdioTransport) Recv() (byte, []byte, error) {
	hdr := make([]byte, 5)
	if _, err := io.ReadFull(t.r, hdr); err != nil {
		return 0, nil, err
	}
	n := binary.BigEndian.Uint32(hdr[1:])
	body := make([]byte, n)
	if _, err := io.ReadFull(t.r, body); err != nil {
		return 0, nil, err
	}
	return hdr[0], body, nil
}
